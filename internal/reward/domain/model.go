// Package domain contains core types for the EcoCoins reward shop.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Redemption records one reward purchase. Reference is the code shown
// to the student for pickup.
type Redemption struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;index"`
	ItemCode  string       `gorm:"column:item_code;type:text;not null"`
	ItemName  string       `gorm:"column:item_name;type:text;not null"`
	Cost      int64        `gorm:"column:cost;not null"`
	Reference string       `gorm:"column:reference;type:text;not null;uniqueIndex"`
	CreatedAt time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Redemption) TableName() string { return "reward_redemptions" }
