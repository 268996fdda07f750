package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/carbonctrl/carbonctrl/internal/auth/domain"
	"github.com/carbonctrl/carbonctrl/internal/clock"
	"github.com/carbonctrl/carbonctrl/internal/game/domain"
	"github.com/carbonctrl/carbonctrl/internal/game/repository"
	"github.com/carbonctrl/carbonctrl/internal/observability/metrics"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	profilerepo "github.com/carbonctrl/carbonctrl/internal/profile/repository"
	profileservice "github.com/carbonctrl/carbonctrl/internal/profile/service"
	"github.com/carbonctrl/carbonctrl/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, profiledomain.Service, domain.Repository) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Game{}, &domain.ScoreRecord{}, &profiledomain.Profile{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	profiles := profileservice.New(zap.NewNop(), profilerepo.New(dbConn), fake)
	repo, scoreRepo := repository.New(dbConn)
	svc := New(zap.NewNop(), repo, scoreRepo, profiles, node, fake, metrics.NewNop())
	return svc, profiles, repo
}

func seedGame(t *testing.T, repo domain.Repository) *domain.Game {
	t.Helper()
	game := &domain.Game{
		ID:              snowflake.ID(100),
		Code:            "tree-planting",
		Title:           "Tree Planting",
		Difficulty:      "Medium",
		CoinReward:      25,
		ScoreMultiplier: 1.5,
	}
	if err := repo.Create(context.Background(), game); err != nil {
		t.Fatalf("failed to seed game: %v", err)
	}
	return game
}

func resolveProfile(t *testing.T, profiles profiledomain.Service, id int64) *profiledomain.Profile {
	t.Helper()
	profile, err := profiles.Resolve(context.Background(), &authdomain.User{
		ID:          snowflake.ID(id),
		Email:       "kai@example.com",
		DisplayName: "Kai",
		Role:        authdomain.RoleStudent,
	})
	if err != nil {
		t.Fatalf("failed to resolve profile: %v", err)
	}
	return profile
}

func TestSubmitScoreAwardsAndTracksBest(t *testing.T) {
	svc, profiles, repo := newTestService(t)
	seedGame(t, repo)
	profile := resolveProfile(t, profiles, 1)

	result, err := svc.SubmitScore(context.Background(), profile.UserID, "tree-planting", 40)
	if err != nil {
		t.Fatalf("failed to submit score: %v", err)
	}
	if !result.PersonalBest {
		t.Fatal("expected first round to set a personal best")
	}
	if result.CoinsAwarded != 25 {
		t.Fatalf("expected 25 coins, got %d", result.CoinsAwarded)
	}
	if result.EcoScoreDelta != 60 {
		t.Fatalf("expected 40*1.5=60 eco score, got %d", result.EcoScoreDelta)
	}

	reloaded, err := profiles.Get(context.Background(), profile.UserID)
	if err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if reloaded.EcoCoins != profiledomain.StartingEcoCoins+25 {
		t.Fatalf("expected coins credited, got %d", reloaded.EcoCoins)
	}
	if reloaded.EcoScore != 60 {
		t.Fatalf("expected eco score 60, got %d", reloaded.EcoScore)
	}
}

func TestSubmitScoreLowerRoundKeepsBest(t *testing.T) {
	svc, profiles, repo := newTestService(t)
	seedGame(t, repo)
	profile := resolveProfile(t, profiles, 1)

	if _, err := svc.SubmitScore(context.Background(), profile.UserID, "tree-planting", 40); err != nil {
		t.Fatalf("failed first round: %v", err)
	}

	result, err := svc.SubmitScore(context.Background(), profile.UserID, "tree-planting", 10)
	if err != nil {
		t.Fatalf("failed second round: %v", err)
	}
	if result.PersonalBest {
		t.Fatal("expected lower round to keep the old best")
	}
	if result.Record.BestScore != 40 {
		t.Fatalf("expected best 40, got %d", result.Record.BestScore)
	}
	if result.Record.PlayCount != 2 {
		t.Fatalf("expected 2 plays, got %d", result.Record.PlayCount)
	}
}

func TestSubmitScoreUnknownGame(t *testing.T) {
	svc, profiles, _ := newTestService(t)
	profile := resolveProfile(t, profiles, 1)

	_, err := svc.SubmitScore(context.Background(), profile.UserID, "no-such-game", 10)
	if err != domain.ErrGameNotFound {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestSubmitScoreClampsNegative(t *testing.T) {
	svc, profiles, repo := newTestService(t)
	seedGame(t, repo)
	profile := resolveProfile(t, profiles, 1)

	result, err := svc.SubmitScore(context.Background(), profile.UserID, "tree-planting", -1)
	if err != nil {
		t.Fatalf("failed to submit: %v", err)
	}
	if result.Score != 0 {
		t.Fatalf("expected score clamped to 0, got %d", result.Score)
	}
	if result.EcoScoreDelta != 0 {
		t.Fatalf("expected no eco score from a zero round, got %d", result.EcoScoreDelta)
	}
	if result.PersonalBest {
		t.Fatal("expected no personal best from a zero round")
	}
	if result.Record.BestScore != 0 || result.Record.PlayCount != 1 {
		t.Fatalf("expected zero best and one play, got %+v", result.Record)
	}
}
