package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleLeader  = "leader"
	RoleOfficer = "officer"
	RoleMember  = "member"
)

type Team struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;size:120;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	LeaderID    string `gorm:"type:uuid;index;not null" json:"leader_id"`
	TeamScore   int64  `gorm:"default:0;index" json:"team_score"`

	Timestamps
	// Teams are soft-deleted so completed raids keep a valid team reference.
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type TeamMember struct {
	ID       string    `gorm:"primaryKey;type:uuid" json:"id"`
	TeamID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_team_member" json:"team_id"`
	UserID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_team_member;index" json:"user_id"`
	Role     string    `gorm:"size:20;not null;default:'member'" json:"role"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case RoleLeader, RoleOfficer, RoleMember:
		return true
	}
	return false
}
