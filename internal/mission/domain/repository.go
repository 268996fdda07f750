package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, mission *Mission) error
	FindByCode(ctx context.Context, code string) (*Mission, error)
	List(ctx context.Context, arOnly bool) ([]Mission, error)
	Count(ctx context.Context) (int64, error)
}

type CompletionRepository interface {
	CreateCompletion(ctx context.Context, completion *Completion) error
	DeleteCompletion(ctx context.Context, id snowflake.ID) error
	FindCompletion(ctx context.Context, missionID, userID snowflake.ID) (*Completion, error)
	ListCompletions(ctx context.Context, userID snowflake.ID) ([]Completion, error)
}
