package models

import (
	"time"
)

const (
	RaidModeSolo = "solo"
	RaidModeTeam = "team"

	RaidStatusActive    = "active"
	RaidStatusCompleted = "completed"
	RaidStatusAbandoned = "abandoned"
)

// Raid is one attempt at a boss. It leaves RaidStatusActive exactly once.
type Raid struct {
	ID               string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID           string     `gorm:"type:uuid;not null;index" json:"user_id"`
	TeamID           *string    `gorm:"type:uuid;index" json:"team_id"`
	BossID           string     `gorm:"type:uuid;not null;index" json:"boss_id"`
	Mode             string     `gorm:"size:10;not null" json:"mode"`
	Status           string     `gorm:"size:20;not null;default:'active';index" json:"status"`
	TotalScore       *int64     `json:"total_score"`
	TimeTakenMinutes *int       `json:"time_taken_minutes"`
	Notes            string     `gorm:"type:text" json:"notes,omitempty"`
	PhotoProofURL    string     `json:"photo_proof_url,omitempty"`
	StartedAt        time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`

	Timestamps
}

type RaidParticipant struct {
	ID              string    `gorm:"primaryKey;type:uuid" json:"id"`
	RaidID          string    `gorm:"type:uuid;not null;uniqueIndex:idx_raid_participant" json:"raid_id"`
	UserID          string    `gorm:"type:uuid;not null;uniqueIndex:idx_raid_participant;index" json:"user_id"`
	IndividualScore int64     `gorm:"default:0" json:"individual_score"`
	JoinedAt        time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

type PhotoProof struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	RaidID      string    `gorm:"type:uuid;not null;index" json:"raid_id"`
	UserID      string    `gorm:"type:uuid;not null" json:"user_id"`
	PhotoURL    string    `gorm:"not null" json:"photo_url"`
	StoragePath string    `json:"storage_path,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
