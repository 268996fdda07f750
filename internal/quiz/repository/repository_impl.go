package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/carbonctrl/carbonctrl/internal/quiz/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) (domain.Repository, domain.AttemptRepository) {
	r := &repo{db: db}
	return r, r
}

func (r *repo) Create(ctx context.Context, quiz *domain.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *repo) FindByCode(ctx context.Context, code string) (*domain.Quiz, error) {
	var quiz domain.Quiz
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *repo) List(ctx context.Context) ([]domain.Quiz, error) {
	var quizzes []domain.Quiz
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&quizzes).Error
	if err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Quiz{}).Count(&count).Error
	return count, err
}

func (r *repo) CreateAttempt(ctx context.Context, attempt *domain.Attempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *repo) ListAttempts(ctx context.Context, userID snowflake.ID) ([]domain.Attempt, error) {
	var attempts []domain.Attempt
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *repo) CountPerfect(ctx context.Context, userID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Attempt{}).
		Where("user_id = ? AND percentage = 100", userID).
		Count(&count).Error
	return count, err
}
