package models

import (
	"time"
)

const (
	RarityCommon    = "common"
	RarityUncommon  = "uncommon"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

type Ingredient struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name          string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Category      string    `gorm:"size:50;index" json:"category"`
	Rarity        string    `gorm:"size:20;not null;default:'common'" json:"rarity"`
	IsPremium     bool      `gorm:"default:false" json:"is_premium"`
	PowerUpEffect string    `gorm:"type:text" json:"power_up_effect,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// PantryItem is how many of an ingredient a user holds.
type PantryItem struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string `gorm:"type:uuid;not null;uniqueIndex:idx_user_ingredient" json:"user_id"`
	IngredientID string `gorm:"type:uuid;not null;uniqueIndex:idx_user_ingredient" json:"ingredient_id"`
	Quantity     int    `gorm:"not null;default:1" json:"quantity"`

	Timestamps
}

func (PantryItem) TableName() string { return "user_pantry" }

func IsValidRarity(r string) bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}
