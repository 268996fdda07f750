// Package domain contains core types for the mini-game catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Game is a playable entry in the mini-game catalog. CoinReward is
// granted per completed round, ScoreMultiplier scales the raw round
// score into eco score.
type Game struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	Code            string       `gorm:"column:code;type:text;not null;uniqueIndex"`
	Title           string       `gorm:"column:title;type:text;not null"`
	Description     string       `gorm:"column:description;type:text"`
	Icon            string       `gorm:"column:icon;type:text"`
	Color           string       `gorm:"column:color;type:text"`
	Difficulty      string       `gorm:"column:difficulty;type:text;not null;default:'Easy'"`
	CoinReward      int64        `gorm:"column:coin_reward;not null;default:0"`
	ScoreMultiplier float64      `gorm:"column:score_multiplier;not null;default:1"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Game) TableName() string { return "games" }

// ScoreRecord is a player's standing in one game.
type ScoreRecord struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	GameID     snowflake.ID `gorm:"column:game_id;not null;index:idx_game_user,unique"`
	UserID     snowflake.ID `gorm:"column:user_id;not null;index:idx_game_user,unique"`
	BestScore  int64        `gorm:"column:best_score;not null;default:0"`
	PlayCount  int64        `gorm:"column:play_count;not null;default:0"`
	LastPlayed time.Time    `gorm:"column:last_played;not null;default:CURRENT_TIMESTAMP"`
	CreatedAt  time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ScoreRecord) TableName() string { return "game_scores" }
