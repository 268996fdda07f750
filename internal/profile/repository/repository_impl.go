package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/carbonctrl/carbonctrl/internal/profile/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, profile *domain.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *repo) FindByUserID(ctx context.Context, userID snowflake.ID) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repo) UpdateFields(ctx context.Context, userID snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Profile{}).Where("user_id = ?", userID).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *repo) AdjustBalances(ctx context.Context, userID snowflake.ID, coinDelta, scoreDelta int64, now time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Profile{}).Where("user_id = ?", userID)
	if coinDelta < 0 {
		tx = tx.Where("eco_coins >= ?", -coinDelta)
	}
	tx = tx.Updates(map[string]any{
		"eco_coins":  gorm.Expr("eco_coins + ?", coinDelta),
		"eco_score":  gorm.Expr("eco_score + ?", scoreDelta),
		"updated_at": now,
	})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *repo) Top(ctx context.Context, limit int) ([]domain.Profile, error) {
	var profiles []domain.Profile
	err := r.db.WithContext(ctx).
		Order("eco_score DESC, user_id ASC").
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *repo) CountWithHigherScore(ctx context.Context, score int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("eco_score > ?", score).
		Count(&count).Error
	return count, err
}
