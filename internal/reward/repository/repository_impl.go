package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/carbonctrl/carbonctrl/internal/reward/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) CreateRedemption(ctx context.Context, redemption *domain.Redemption) error {
	return r.db.WithContext(ctx).Create(redemption).Error
}

func (r *repo) ListRedemptions(ctx context.Context, userID snowflake.ID) ([]domain.Redemption, error) {
	var redemptions []domain.Redemption
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&redemptions).Error
	if err != nil {
		return nil, err
	}
	return redemptions, nil
}
