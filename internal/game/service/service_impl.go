package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/carbonctrl/carbonctrl/internal/clock"
	"github.com/carbonctrl/carbonctrl/internal/game/domain"
	"github.com/carbonctrl/carbonctrl/internal/observability/metrics"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	log       *zap.Logger
	repo      domain.Repository
	scoreRepo domain.ScoreRepository
	profiles  profiledomain.Service
	genID     *snowflake.Node
	clock     clock.Clock
	metrics   *metrics.Metrics
}

func New(log *zap.Logger, repo domain.Repository, scoreRepo domain.ScoreRepository, profiles profiledomain.Service, genID *snowflake.Node, clk clock.Clock, m *metrics.Metrics) domain.Service {
	return &Service{
		log:       log.Named("game.service"),
		repo:      repo,
		scoreRepo: scoreRepo,
		profiles:  profiles,
		genID:     genID,
		clock:     clk,
		metrics:   m,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Game, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, code string) (*domain.Game, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrGameNotFound
	}
	return s.repo.FindByCode(ctx, code)
}

func (s *Service) SubmitScore(ctx context.Context, userID snowflake.ID, code string, score int64) (*domain.PlayResult, error) {
	if score < 0 {
		score = 0
	}

	game, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	personalBest := false

	record, err := s.scoreRepo.FindRecord(ctx, game.ID, userID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		personalBest = score > 0
		record = &domain.ScoreRecord{
			ID:         s.genID.Generate(),
			GameID:     game.ID,
			UserID:     userID,
			BestScore:  score,
			PlayCount:  1,
			LastPlayed: now,
			CreatedAt:  now,
		}
		if err := s.scoreRepo.CreateRecord(ctx, record); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if score > record.BestScore {
			record.BestScore = score
			personalBest = true
		}
		record.PlayCount++
		record.LastPlayed = now
		if err := s.scoreRepo.UpdateRecord(ctx, record); err != nil {
			return nil, err
		}
	}

	ecoScoreDelta := int64(math.Round(float64(score) * game.ScoreMultiplier))
	if _, err := s.profiles.Award(ctx, userID, profiledomain.Award{
		EcoCoins: game.CoinReward,
		EcoScore: ecoScoreDelta,
	}); err != nil {
		return nil, err
	}

	s.metrics.RecordGameScore(ctx, game.Code)
	if game.CoinReward > 0 {
		s.metrics.RecordCoinsAwarded(ctx, "game", game.CoinReward)
	}

	s.log.Info("recorded game round",
		zap.String("game", game.Code),
		zap.String("user_id", userID.String()),
		zap.Int64("score", score),
		zap.Bool("personal_best", personalBest),
	)

	return &domain.PlayResult{
		Game:          game,
		Score:         score,
		EcoScoreDelta: ecoScoreDelta,
		CoinsAwarded:  game.CoinReward,
		PersonalBest:  personalBest,
		Record:        record,
	}, nil
}

func (s *Service) Records(ctx context.Context, userID snowflake.ID) ([]domain.ScoreRecord, error) {
	return s.scoreRepo.ListRecords(ctx, userID)
}
