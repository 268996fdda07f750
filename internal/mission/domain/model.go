// Package domain contains core types for story and AR missions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Mission is a story-driven activity. AR missions render through the
// camera surface but share the completion flow.
type Mission struct {
	ID          snowflake.ID                `gorm:"primaryKey"`
	Code        string                      `gorm:"column:code;type:text;not null;uniqueIndex"`
	Title       string                      `gorm:"column:title;type:text;not null"`
	Story       string                      `gorm:"column:story;type:text"`
	Icon        string                      `gorm:"column:icon;type:text"`
	Difficulty  string                      `gorm:"column:difficulty;type:text;not null;default:'Easy'"`
	Chapters    datatypes.JSONSlice[string] `gorm:"column:chapters"`
	CoinReward  int64                       `gorm:"column:coin_reward;not null;default:0"`
	ScoreReward int64                       `gorm:"column:score_reward;not null;default:0"`
	Badge       string                      `gorm:"column:badge;type:text"`
	AR          bool                        `gorm:"column:ar;not null;default:false"`
	CreatedAt   time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Mission) TableName() string { return "missions" }

// Completion marks a mission finished by a user, at most once.
type Completion struct {
	ID             snowflake.ID `gorm:"primaryKey"`
	MissionID      snowflake.ID `gorm:"column:mission_id;not null;index:idx_mission_user,unique"`
	UserID         snowflake.ID `gorm:"column:user_id;not null;index:idx_mission_user,unique"`
	CoinsAwarded   int64        `gorm:"column:coins_awarded;not null"`
	ScoreAwarded   int64        `gorm:"column:score_awarded;not null"`
	CertificateRef string       `gorm:"column:certificate_ref;type:text"`
	CompletedAt    time.Time    `gorm:"column:completed_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Completion) TableName() string { return "mission_completions" }
