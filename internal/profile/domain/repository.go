package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, profile *Profile) error
	FindByUserID(ctx context.Context, userID snowflake.ID) (*Profile, error)
	UpdateFields(ctx context.Context, userID snowflake.ID, fields map[string]any) error
	// AdjustBalances atomically applies coin and score deltas. A negative
	// coin delta only applies when the balance covers it; applied reports
	// whether the row changed.
	AdjustBalances(ctx context.Context, userID snowflake.ID, coinDelta, scoreDelta int64, now time.Time) (applied bool, err error)
	Top(ctx context.Context, limit int) ([]Profile, error)
	CountWithHigherScore(ctx context.Context, score int64) (int64, error)
}
