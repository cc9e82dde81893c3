package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyHard      = "hard"
	DifficultyLegendary = "legendary"
)

// Boss is a recipe challenge. Bosses are immutable once created.
type Boss struct {
	ID                  string                      `gorm:"primaryKey;type:uuid" json:"id"`
	Name                string                      `gorm:"size:200;not null" json:"name"`
	Slug                string                      `gorm:"uniqueIndex;size:220;not null" json:"slug"`
	Description         string                      `gorm:"type:text" json:"description,omitempty"`
	Difficulty          string                      `gorm:"size:20;not null;index" json:"difficulty"`
	DifficultyLevel     int                         `gorm:"not null;default:1" json:"difficulty_level"`
	CuisineType         string                      `gorm:"size:50" json:"cuisine_type,omitempty"`
	PrepTimeMinutes     int                         `json:"prep_time_minutes"`
	CookTimeMinutes     int                         `json:"cook_time_minutes"`
	Servings            int                         `json:"servings"`
	BaseScore           int                         `gorm:"not null;default:100" json:"base_score"`
	RequiredIngredients datatypes.JSONSlice[string] `json:"required_ingredients"`
	Instructions        datatypes.JSONSlice[string] `json:"instructions"`
	CreatedAt           time.Time                   `gorm:"autoCreateTime" json:"created_at"`
}

func (Boss) TableName() string { return "recipe_bosses" }

func IsValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyLegendary:
		return true
	}
	return false
}
