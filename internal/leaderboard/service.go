// Package leaderboard ranks players by eco score. Reads are served
// from a short-lived cache so dashboard polling does not hammer the
// profiles table.
package leaderboard

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/carbonctrl/carbonctrl/internal/cache"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	cacheTTL = 30 * time.Second
)

// Entry is one leaderboard row.
type Entry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	EcoScore    int64  `json:"eco_score"`
	Level       int    `json:"level"`
	Badges      int    `json:"badges"`
}

// Standing is a single player's position.
type Standing struct {
	Rank     int   `json:"rank"`
	EcoScore int64 `json:"eco_score"`
}

type Service interface {
	Top(ctx context.Context, limit int) ([]Entry, error)
	RankOf(ctx context.Context, userID snowflake.ID) (*Standing, error)
}

type service struct {
	log      *zap.Logger
	profiles profiledomain.Repository
	cache    cache.Cache[int, []Entry]
}

func New(log *zap.Logger, profiles profiledomain.Repository) Service {
	return newWithCache(log, profiles, cache.NewTTLCache[int, []Entry]())
}

func newWithCache(log *zap.Logger, profiles profiledomain.Repository, c cache.Cache[int, []Entry]) Service {
	return &service{
		log:      log.Named("leaderboard.service"),
		profiles: profiles,
		cache:    c,
	}
}

func (s *service) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if entries, ok := s.cache.Get(limit); ok {
		return entries, nil
	}

	profiles, err := s.profiles.Top(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(profiles))
	for i, profile := range profiles {
		entries = append(entries, Entry{
			Rank:        i + 1,
			UserID:      profile.UserID.String(),
			DisplayName: profile.DisplayName,
			EcoScore:    profile.EcoScore,
			Level:       profile.Level,
			Badges:      len(profile.Badges),
		})
	}

	s.cache.Set(limit, entries, cacheTTL)
	return entries, nil
}

func (s *service) RankOf(ctx context.Context, userID snowflake.ID) (*Standing, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	higher, err := s.profiles.CountWithHigherScore(ctx, profile.EcoScore)
	if err != nil {
		return nil, err
	}
	return &Standing{
		Rank:     int(higher) + 1,
		EcoScore: profile.EcoScore,
	}, nil
}
