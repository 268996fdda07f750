package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/carbonctrl/carbonctrl/internal/auth/domain"
	"github.com/carbonctrl/carbonctrl/internal/clock"
	"github.com/carbonctrl/carbonctrl/internal/profile/domain"
	"github.com/carbonctrl/carbonctrl/pkg/db"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	clock clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, clk clock.Clock) domain.Service {
	return &Service{
		log:   log.Named("profile.service"),
		repo:  repo,
		clock: clk,
	}
}

func (s *Service) Resolve(ctx context.Context, user *authdomain.User) (*domain.Profile, error) {
	if user == nil {
		return nil, domain.ErrNoActiveSession
	}

	profile, err := s.repo.FindByUserID(ctx, user.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		// reads must not lock the user out of the product
		s.log.Warn("profile read failed, serving degraded default",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return s.defaultProfile(user, true), nil
	}

	created := s.defaultProfile(user, false)
	if err := s.repo.Create(ctx, created); err != nil {
		if db.IsDuplicateKeyErr(err) {
			// another request created the profile first; its row wins
			return s.repo.FindByUserID(ctx, user.ID)
		}
		s.log.Error("profile create failed, serving degraded default",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return s.defaultProfile(user, true), nil
	}

	s.log.Info("created profile with starting grant",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return created, nil
}

func (s *Service) Get(ctx context.Context, userID snowflake.ID) (*domain.Profile, error) {
	return s.repo.FindByUserID(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID snowflake.ID, req domain.UpdateRequest) (*domain.Profile, error) {
	fields := map[string]any{}
	if req.DisplayName != nil {
		if name := strings.TrimSpace(*req.DisplayName); name != "" {
			fields["display_name"] = name
		}
	}
	if req.EcoScore != nil {
		fields["eco_score"] = *req.EcoScore
	}
	if req.EcoCoins != nil {
		fields["eco_coins"] = *req.EcoCoins
	}
	if req.Level != nil {
		fields["level"] = *req.Level
	}
	if req.Badges != nil {
		fields["badges"] = datatypes.NewJSONSlice(req.Badges)
	}
	if len(fields) == 0 {
		return s.repo.FindByUserID(ctx, userID)
	}
	fields["updated_at"] = s.clock.Now()

	if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		return nil, domain.ErrPersistence
	}
	return s.repo.FindByUserID(ctx, userID)
}

func (s *Service) Award(ctx context.Context, userID snowflake.ID, award domain.Award) (*domain.Profile, error) {
	if award.EcoCoins < 0 || award.EcoScore < 0 {
		return nil, domain.ErrPersistence
	}

	applied, err := s.repo.AdjustBalances(ctx, userID, award.EcoCoins, award.EcoScore, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, domain.ErrProfileNotFound
	}

	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if level := domain.LevelForScore(profile.EcoScore); level != profile.Level {
		if err := s.repo.UpdateFields(ctx, userID, map[string]any{
			"level":      level,
			"updated_at": s.clock.Now(),
		}); err != nil {
			return nil, err
		}
		profile.Level = level
	}

	if badge := strings.TrimSpace(award.Badge); badge != "" && !profile.HasBadge(badge) {
		return s.grantBadge(ctx, profile, badge)
	}
	return profile, nil
}

func (s *Service) SpendCoins(ctx context.Context, userID snowflake.ID, coins int64) (*domain.Profile, error) {
	if coins <= 0 {
		return nil, domain.ErrPersistence
	}

	applied, err := s.repo.AdjustBalances(ctx, userID, -coins, 0, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !applied {
		if _, err := s.repo.FindByUserID(ctx, userID); err != nil {
			return nil, err
		}
		return nil, domain.ErrInsufficientCoins
	}

	return s.repo.FindByUserID(ctx, userID)
}

func (s *Service) GrantBadge(ctx context.Context, userID snowflake.ID, badge string) (*domain.Profile, error) {
	badge = strings.TrimSpace(badge)
	if badge == "" {
		return s.repo.FindByUserID(ctx, userID)
	}

	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.HasBadge(badge) {
		return profile, nil
	}
	return s.grantBadge(ctx, profile, badge)
}

func (s *Service) TouchLastLogin(ctx context.Context, userID snowflake.ID) error {
	return s.repo.UpdateFields(ctx, userID, map[string]any{
		"last_login_at": s.clock.Now(),
	})
}

func (s *Service) grantBadge(ctx context.Context, profile *domain.Profile, badge string) (*domain.Profile, error) {
	badges := append([]string(nil), profile.Badges...)
	badges = append(badges, badge)
	if err := s.repo.UpdateFields(ctx, profile.UserID, map[string]any{
		"badges":     datatypes.NewJSONSlice(badges),
		"updated_at": s.clock.Now(),
	}); err != nil {
		return nil, err
	}
	profile.Badges = datatypes.NewJSONSlice(badges)
	return profile, nil
}

func (s *Service) defaultProfile(user *authdomain.User, degraded bool) *domain.Profile {
	now := s.clock.Now()
	return &domain.Profile{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		EcoScore:    0,
		EcoCoins:    domain.StartingEcoCoins,
		Level:       domain.StartingLevel,
		Badges:      datatypes.NewJSONSlice([]string{domain.WelcomeBadge}),
		CreatedAt:   now,
		LastLoginAt: now,
		UpdatedAt:   now,
		Degraded:    degraded,
	}
}
