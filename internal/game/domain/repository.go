package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, game *Game) error
	FindByCode(ctx context.Context, code string) (*Game, error)
	List(ctx context.Context) ([]Game, error)
	Count(ctx context.Context) (int64, error)
}

type ScoreRepository interface {
	FindRecord(ctx context.Context, gameID, userID snowflake.ID) (*ScoreRecord, error)
	CreateRecord(ctx context.Context, record *ScoreRecord) error
	UpdateRecord(ctx context.Context, record *ScoreRecord) error
	ListRecords(ctx context.Context, userID snowflake.ID) ([]ScoreRecord, error)
}
