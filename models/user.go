package models

import (
	"time"
)

// User is a registered player. TotalScore and TotalRaidsCompleted only ever
// grow, and only through raid completion.
type User struct {
	ID                  string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username            string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email               string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash        string     `gorm:"not null" json:"-"`
	DisplayName         string     `gorm:"size:100" json:"display_name"`
	AvatarURL           string     `json:"avatar_url,omitempty"`
	IsPremium           bool       `gorm:"default:false" json:"is_premium"`
	PremiumExpiresAt    *time.Time `json:"premium_expires_at,omitempty"`
	TotalScore          int64      `gorm:"default:0;index" json:"total_score"`
	TotalRaidsCompleted int64      `gorm:"default:0" json:"total_raids_completed"`

	Timestamps
}

// PublicUser is the subset of User shown to other players.
type PublicUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}
