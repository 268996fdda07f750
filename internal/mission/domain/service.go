package domain

import (
	"context"
	"io"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	List(ctx context.Context, arOnly bool) ([]Mission, error)
	Get(ctx context.Context, code string) (*Mission, error)
	Create(ctx context.Context, req CreateRequest) (*Mission, error)
	// Complete finishes a mission for a user. Repeat calls return the
	// original completion without awarding twice.
	Complete(ctx context.Context, userID snowflake.ID, code string) (*CompleteResult, error)
	Completions(ctx context.Context, userID snowflake.ID) ([]Completion, error)
	Certificate(ctx context.Context, userID snowflake.ID, code string, displayName string) (io.Reader, error)
}

type CreateRequest struct {
	Code        string
	Title       string
	Story       string
	Icon        string
	Difficulty  string
	Chapters    []string
	CoinReward  int64
	ScoreReward int64
	Badge       string
	AR          bool
}

type CompleteResult struct {
	Mission      *Mission
	Completion   *Completion
	AlreadyDone  bool
	CoinsAwarded int64
	ScoreAwarded int64
}
