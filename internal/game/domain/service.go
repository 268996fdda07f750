package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	List(ctx context.Context) ([]Game, error)
	Get(ctx context.Context, code string) (*Game, error)
	SubmitScore(ctx context.Context, userID snowflake.ID, code string, score int64) (*PlayResult, error)
	Records(ctx context.Context, userID snowflake.ID) ([]ScoreRecord, error)
}

// PlayResult is what one completed round earned.
type PlayResult struct {
	Game          *Game
	Score         int64
	EcoScoreDelta int64
	CoinsAwarded  int64
	PersonalBest  bool
	Record        *ScoreRecord
}
