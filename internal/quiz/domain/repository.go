package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, quiz *Quiz) error
	FindByCode(ctx context.Context, code string) (*Quiz, error)
	List(ctx context.Context) ([]Quiz, error)
	Count(ctx context.Context) (int64, error)
}

type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt *Attempt) error
	ListAttempts(ctx context.Context, userID snowflake.ID) ([]Attempt, error)
	CountPerfect(ctx context.Context, userID snowflake.ID) (int64, error)
}
