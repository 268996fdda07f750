package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/carbonctrl/carbonctrl/internal/clock"
	"github.com/carbonctrl/carbonctrl/internal/mission/domain"
	"github.com/carbonctrl/carbonctrl/internal/observability/metrics"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	"github.com/carbonctrl/carbonctrl/internal/providers/pdf"
	"github.com/carbonctrl/carbonctrl/pkg/db"
	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type Service struct {
	log            *zap.Logger
	repo           domain.Repository
	completionRepo domain.CompletionRepository
	profiles       profiledomain.Service
	certificates   pdf.Provider
	genID          *snowflake.Node
	clock          clock.Clock
	metrics        *metrics.Metrics
}

func New(log *zap.Logger, repo domain.Repository, completionRepo domain.CompletionRepository, profiles profiledomain.Service, certificates pdf.Provider, genID *snowflake.Node, clk clock.Clock, m *metrics.Metrics) domain.Service {
	return &Service{
		log:            log.Named("mission.service"),
		repo:           repo,
		completionRepo: completionRepo,
		profiles:       profiles,
		certificates:   certificates,
		genID:          genID,
		clock:          clk,
		metrics:        m,
	}
}

func (s *Service) List(ctx context.Context, arOnly bool) ([]domain.Mission, error) {
	return s.repo.List(ctx, arOnly)
}

func (s *Service) Get(ctx context.Context, code string) (*domain.Mission, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrMissionNotFound
	}
	return s.repo.FindByCode(ctx, code)
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Mission, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidMission
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = slug.Make(title)
	}
	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return nil, domain.ErrMissionExists
	} else if err != domain.ErrMissionNotFound {
		return nil, err
	}

	mission := &domain.Mission{
		ID:          s.genID.Generate(),
		Code:        code,
		Title:       title,
		Story:       strings.TrimSpace(req.Story),
		Icon:        strings.TrimSpace(req.Icon),
		Difficulty:  strings.TrimSpace(req.Difficulty),
		Chapters:    req.Chapters,
		CoinReward:  req.CoinReward,
		ScoreReward: req.ScoreReward,
		Badge:       strings.TrimSpace(req.Badge),
		AR:          req.AR,
	}
	if mission.Difficulty == "" {
		mission.Difficulty = "Easy"
	}

	if err := s.repo.Create(ctx, mission); err != nil {
		return nil, err
	}
	return mission, nil
}

func (s *Service) Complete(ctx context.Context, userID snowflake.ID, code string) (*domain.CompleteResult, error) {
	mission, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	if existing, err := s.completionRepo.FindCompletion(ctx, mission.ID, userID); err == nil {
		return &domain.CompleteResult{
			Mission:     mission,
			Completion:  existing,
			AlreadyDone: true,
		}, nil
	} else if !errors.Is(err, domain.ErrNotCompleted) {
		return nil, err
	}

	completion := &domain.Completion{
		ID:             s.genID.Generate(),
		MissionID:      mission.ID,
		UserID:         userID,
		CoinsAwarded:   mission.CoinReward,
		ScoreAwarded:   mission.ScoreReward,
		CertificateRef: ulid.Make().String(),
		CompletedAt:    s.clock.Now(),
	}
	if err := s.completionRepo.CreateCompletion(ctx, completion); err != nil {
		if db.IsDuplicateKeyErr(err) {
			// concurrent completion won; the earlier award stands
			existing, ferr := s.completionRepo.FindCompletion(ctx, mission.ID, userID)
			if ferr != nil {
				return nil, ferr
			}
			return &domain.CompleteResult{
				Mission:     mission,
				Completion:  existing,
				AlreadyDone: true,
			}, nil
		}
		return nil, err
	}

	if _, err := s.profiles.Award(ctx, userID, profiledomain.Award{
		EcoCoins: mission.CoinReward,
		EcoScore: mission.ScoreReward,
		Badge:    mission.Badge,
	}); err != nil {
		// Unwind the completion so a retry can pay out the reward.
		if delErr := s.completionRepo.DeleteCompletion(ctx, completion.ID); delErr != nil {
			s.log.Error("failed to unwind completion after award error",
				zap.String("mission", mission.Code),
				zap.String("user_id", userID.String()),
				zap.Error(delErr),
			)
		}
		return nil, err
	}

	s.metrics.RecordMissionCompleted(ctx, mission.Code)
	if mission.CoinReward > 0 {
		s.metrics.RecordCoinsAwarded(ctx, "mission", mission.CoinReward)
	}

	s.log.Info("mission completed",
		zap.String("mission", mission.Code),
		zap.String("user_id", userID.String()),
	)

	return &domain.CompleteResult{
		Mission:      mission,
		Completion:   completion,
		CoinsAwarded: mission.CoinReward,
		ScoreAwarded: mission.ScoreReward,
	}, nil
}

func (s *Service) Completions(ctx context.Context, userID snowflake.ID) ([]domain.Completion, error) {
	return s.completionRepo.ListCompletions(ctx, userID)
}

func (s *Service) Certificate(ctx context.Context, userID snowflake.ID, code string, displayName string) (io.Reader, error) {
	mission, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	completion, err := s.completionRepo.FindCompletion(ctx, mission.ID, userID)
	if err != nil {
		return nil, err
	}

	reader, err := s.certificates.GenerateCertificate(ctx, pdf.CertificateData{
		RecipientName: displayName,
		MissionTitle:  mission.Title,
		MissionStory:  mission.Story,
		CompletedOn:   completion.CompletedAt.Format("January 2, 2006"),
		CoinsAwarded:  completion.CoinsAwarded,
		ScoreAwarded:  completion.ScoreAwarded,
		Reference:     completion.CertificateRef,
	})
	if err != nil {
		s.log.Error("certificate generation failed",
			zap.String("mission", mission.Code),
			zap.Error(err),
		)
		return nil, domain.ErrCertificateFailure
	}
	return reader, nil
}
