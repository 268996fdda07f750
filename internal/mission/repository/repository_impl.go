package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/carbonctrl/carbonctrl/internal/mission/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) (domain.Repository, domain.CompletionRepository) {
	r := &repo{db: db}
	return r, r
}

func (r *repo) Create(ctx context.Context, mission *domain.Mission) error {
	return r.db.WithContext(ctx).Create(mission).Error
}

func (r *repo) FindByCode(ctx context.Context, code string) (*domain.Mission, error) {
	var mission domain.Mission
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&mission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &mission, nil
}

func (r *repo) List(ctx context.Context, arOnly bool) ([]domain.Mission, error) {
	tx := r.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if arOnly {
		tx = tx.Where("ar = ?", true)
	}
	var missions []domain.Mission
	if err := tx.Find(&missions).Error; err != nil {
		return nil, err
	}
	return missions, nil
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Mission{}).Count(&count).Error
	return count, err
}

func (r *repo) CreateCompletion(ctx context.Context, completion *domain.Completion) error {
	return r.db.WithContext(ctx).Create(completion).Error
}

func (r *repo) DeleteCompletion(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Completion{}, "id = ?", id).Error
}

func (r *repo) FindCompletion(ctx context.Context, missionID, userID snowflake.ID) (*domain.Completion, error) {
	var completion domain.Completion
	err := r.db.WithContext(ctx).
		Where("mission_id = ? AND user_id = ?", missionID, userID).
		First(&completion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotCompleted
	}
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

func (r *repo) ListCompletions(ctx context.Context, userID snowflake.ID) ([]domain.Completion, error) {
	var completions []domain.Completion
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&completions).Error
	if err != nil {
		return nil, err
	}
	return completions, nil
}
