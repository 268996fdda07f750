// Package domain contains core types for quizzes and attempts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PassingPercentage is the minimum grade that earns coins.
const PassingPercentage = 60

// PerfectBadge is granted on a 100% grade.
const PerfectBadge = "quiz-master"

// Question is one multiple-choice item. CorrectAnswer indexes Options.
type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Points        int64    `json:"points"`
}

// Quiz is an authored set of questions. Questions live in a JSON column
// so authored and generated quizzes share one shape.
type Quiz struct {
	ID          snowflake.ID                  `gorm:"primaryKey"`
	Code        string                        `gorm:"column:code;type:text;not null;uniqueIndex"`
	Title       string                        `gorm:"column:title;type:text;not null"`
	Description string                        `gorm:"column:description;type:text"`
	Icon        string                        `gorm:"column:icon;type:text"`
	Difficulty  string                        `gorm:"column:difficulty;type:text;not null;default:'Easy'"`
	Points      int64                         `gorm:"column:points;not null;default:0"`
	Questions   datatypes.JSONSlice[Question] `gorm:"column:questions"`
	Generated   bool                          `gorm:"column:generated;not null;default:false"`
	CreatedBy   snowflake.ID                  `gorm:"column:created_by;index"`
	CreatedAt   time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Quiz) TableName() string { return "quizzes" }

// TotalPoints sums the question weights.
func (q *Quiz) TotalPoints() int64 {
	var total int64
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// Attempt records one graded submission.
type Attempt struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	QuizID       snowflake.ID `gorm:"column:quiz_id;not null;index"`
	UserID       snowflake.ID `gorm:"column:user_id;not null;index"`
	Score        int64        `gorm:"column:score;not null"`
	TotalPoints  int64        `gorm:"column:total_points;not null"`
	Percentage   int          `gorm:"column:percentage;not null"`
	Passed       bool         `gorm:"column:passed;not null"`
	CoinsAwarded int64        `gorm:"column:coins_awarded;not null"`
	CreatedAt    time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Attempt) TableName() string { return "quiz_attempts" }
