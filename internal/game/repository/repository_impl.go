package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/carbonctrl/carbonctrl/internal/game/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) (domain.Repository, domain.ScoreRepository) {
	r := &repo{db: db}
	return r, r
}

func (r *repo) Create(ctx context.Context, game *domain.Game) error {
	return r.db.WithContext(ctx).Create(game).Error
}

func (r *repo) FindByCode(ctx context.Context, code string) (*domain.Game, error) {
	var game domain.Game
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *repo) List(ctx context.Context) ([]domain.Game, error) {
	var games []domain.Game
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&games).Error
	if err != nil {
		return nil, err
	}
	return games, nil
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Game{}).Count(&count).Error
	return count, err
}

func (r *repo) FindRecord(ctx context.Context, gameID, userID snowflake.ID) (*domain.ScoreRecord, error) {
	var record domain.ScoreRecord
	err := r.db.WithContext(ctx).
		Where("game_id = ? AND user_id = ?", gameID, userID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repo) CreateRecord(ctx context.Context, record *domain.ScoreRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repo) UpdateRecord(ctx context.Context, record *domain.ScoreRecord) error {
	return r.db.WithContext(ctx).
		Model(&domain.ScoreRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"best_score":  record.BestScore,
			"play_count":  record.PlayCount,
			"last_played": record.LastPlayed,
		}).Error
}

func (r *repo) ListRecords(ctx context.Context, userID snowflake.ID) ([]domain.ScoreRecord, error) {
	var records []domain.ScoreRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_played DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
