// Package domain contains core types for player profiles.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Starting grant applied when a profile is created for a new account.
const (
	StartingEcoCoins = 100
	StartingLevel    = 1
	WelcomeBadge     = "welcome"
)

// ScorePerLevel is how much eco score advances the player one level.
const ScorePerLevel = 100

// Profile is the per-user gameplay record. It is keyed by the account
// id, one row per user.
type Profile struct {
	UserID      snowflake.ID                 `gorm:"primaryKey;column:user_id"`
	Email       string                       `gorm:"column:email;not null"`
	DisplayName string                       `gorm:"column:display_name;type:text;not null"`
	Role        string                       `gorm:"column:role;type:text;not null;default:'student'"`
	EcoScore    int64                        `gorm:"column:eco_score;not null;default:0"`
	EcoCoins    int64                        `gorm:"column:eco_coins;not null;default:0"`
	Level       int                          `gorm:"column:level;not null;default:1"`
	Badges      datatypes.JSONSlice[string]  `gorm:"column:badges"`
	CreatedAt   time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	LastLoginAt time.Time                    `gorm:"column:last_login_at;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP"`

	// Degraded marks an in-memory fallback returned when the store
	// could not be read. It is never persisted.
	Degraded bool `gorm:"-" json:"-"`
}

// TableName sets the database table name.
func (Profile) TableName() string { return "profiles" }

// AfterFind backfills column defaults on rows written before the
// schema carried them, so every reader sees a usable record.
func (p *Profile) AfterFind(*gorm.DB) error {
	if p.Level < StartingLevel {
		p.Level = StartingLevel
	}
	if p.Badges == nil {
		p.Badges = datatypes.JSONSlice[string]{}
	}
	if strings.TrimSpace(p.Role) == "" {
		p.Role = "student"
	}
	return nil
}

// HasBadge reports whether the profile already carries a badge.
func (p *Profile) HasBadge(badge string) bool {
	for _, b := range p.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// LevelForScore computes the level a given eco score puts a player at.
func LevelForScore(score int64) int {
	if score < 0 {
		return StartingLevel
	}
	return int(score/ScorePerLevel) + 1
}
