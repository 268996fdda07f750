package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	List(ctx context.Context) ([]Quiz, error)
	Get(ctx context.Context, code string) (*Quiz, error)
	Create(ctx context.Context, req CreateRequest) (*Quiz, error)
	Grade(ctx context.Context, userID snowflake.ID, code string, answers []int) (*GradeResult, error)
	Attempts(ctx context.Context, userID snowflake.ID) ([]Attempt, error)
}

type CreateRequest struct {
	Code        string
	Title       string
	Description string
	Icon        string
	Difficulty  string
	Questions   []Question
	Generated   bool
	CreatedBy   snowflake.ID
}

// GradeResult is what a submission earns.
type GradeResult struct {
	Attempt      *Attempt
	CoinsAwarded int64
	ScoreAwarded int64
	Badge        string
}
