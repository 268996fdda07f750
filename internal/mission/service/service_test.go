package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/carbonctrl/carbonctrl/internal/auth/domain"
	"github.com/carbonctrl/carbonctrl/internal/clock"
	"github.com/carbonctrl/carbonctrl/internal/mission/domain"
	"github.com/carbonctrl/carbonctrl/internal/mission/repository"
	"github.com/carbonctrl/carbonctrl/internal/observability/metrics"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	profilerepo "github.com/carbonctrl/carbonctrl/internal/profile/repository"
	profileservice "github.com/carbonctrl/carbonctrl/internal/profile/service"
	"github.com/carbonctrl/carbonctrl/internal/providers/pdf"
	"github.com/carbonctrl/carbonctrl/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, profiledomain.Service) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Mission{}, &domain.Completion{}, &profiledomain.Profile{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	profiles := profileservice.New(zap.NewNop(), profilerepo.New(dbConn), fake)
	repo, completionRepo := repository.New(dbConn)
	svc := New(zap.NewNop(), repo, completionRepo, profiles, pdf.New(), node, fake, metrics.NewNop())
	return svc, profiles
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

func seedMission(t *testing.T, svc domain.Service) *domain.Mission {
	t.Helper()
	mission, err := svc.Create(context.Background(), domain.CreateRequest{
		Title:       "River Cleanup",
		Story:       "Help restore the river ecosystem.",
		Chapters:    []string{"Gear up", "Collect waste", "Sort and recycle"},
		CoinReward:  50,
		ScoreReward: 80,
		Badge:       "river-guardian",
	})
	if err != nil {
		t.Fatalf("failed to create mission: %v", err)
	}
	return mission
}

func TestCompleteAwardsOnce(t *testing.T) {
	svc, profiles := newTestService(t)
	mission := seedMission(t, svc)
	profile := resolveProfile(t, profiles, 1)

	result, err := svc.Complete(context.Background(), profile.UserID, mission.Code)
	if err != nil {
		t.Fatalf("failed to complete: %v", err)
	}
	if result.AlreadyDone {
		t.Fatal("expected first completion")
	}
	if result.CoinsAwarded != 50 || result.ScoreAwarded != 80 {
		t.Fatalf("unexpected award: %d coins %d score", result.CoinsAwarded, result.ScoreAwarded)
	}
	if result.Completion.CertificateRef == "" {
		t.Fatal("expected certificate reference")
	}

	again, err := svc.Complete(context.Background(), profile.UserID, mission.Code)
	if err != nil {
		t.Fatalf("failed repeat completion: %v", err)
	}
	if !again.AlreadyDone {
		t.Fatal("expected repeat to be idempotent")
	}
	if again.CoinsAwarded != 0 {
		t.Fatalf("expected no second award, got %d", again.CoinsAwarded)
	}

	reloaded, err := profiles.Get(context.Background(), profile.UserID)
	if err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if reloaded.EcoCoins != profiledomain.StartingEcoCoins+50 {
		t.Fatalf("expected single award, got %d coins", reloaded.EcoCoins)
	}
	if !reloaded.HasBadge("river-guardian") {
		t.Fatal("expected mission badge")
	}
}

func TestCompleteAwardFailureAllowsRetry(t *testing.T) {
	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Mission{}, &domain.Completion{}, &profiledomain.Profile{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	profiles := profileservice.New(zap.NewNop(), profilerepo.New(dbConn), fake)
	repo, completionRepo := repository.New(dbConn)
	svc := New(zap.NewNop(), repo, completionRepo, profiles, pdf.New(), node, fake, metrics.NewNop())
	mission := seedMission(t, svc)
	profile := resolveProfile(t, profiles, 1)

	// Break the profile store so the award after the completion write fails.
	if err := dbConn.Migrator().DropTable(&profiledomain.Profile{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}
	if _, err := svc.Complete(context.Background(), profile.UserID, mission.Code); err == nil {
		t.Fatal("expected completion to fail")
	}

	completions, err := svc.Completions(context.Background(), profile.UserID)
	if err != nil {
		t.Fatalf("failed to list completions: %v", err)
	}
	if len(completions) != 0 {
		t.Fatalf("expected completion unwound, got %d", len(completions))
	}

	// Once the store recovers the retry pays out in full.
	if err := dbConn.AutoMigrate(&profiledomain.Profile{}); err != nil {
		t.Fatalf("failed to restore table: %v", err)
	}
	profile = resolveProfile(t, profiles, 1)

	result, err := svc.Complete(context.Background(), profile.UserID, mission.Code)
	if err != nil {
		t.Fatalf("failed to retry completion: %v", err)
	}
	if result.AlreadyDone {
		t.Fatal("expected retry to count as first completion")
	}
	if result.CoinsAwarded != 50 {
		t.Fatalf("expected full award on retry, got %d", result.CoinsAwarded)
	}

	reloaded, err := profiles.Get(context.Background(), profile.UserID)
	if err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if reloaded.EcoCoins != profiledomain.StartingEcoCoins+50 {
		t.Fatalf("expected awarded balance, got %d", reloaded.EcoCoins)
	}
}

func TestCompleteUnknownMission(t *testing.T) {
	svc, profiles := newTestService(t)
	profile := resolveProfile(t, profiles, 1)

	_, err := svc.Complete(context.Background(), profile.UserID, "no-such-mission")
	if err != domain.ErrMissionNotFound {
		t.Fatalf("expected ErrMissionNotFound, got %v", err)
	}
}

func TestCertificateRequiresCompletion(t *testing.T) {
	svc, profiles := newTestService(t)
	mission := seedMission(t, svc)
	profile := resolveProfile(t, profiles, 1)

	_, err := svc.Certificate(context.Background(), profile.UserID, mission.Code, "Kai")
	if err != domain.ErrNotCompleted {
		t.Fatalf("expected ErrNotCompleted, got %v", err)
	}

	if _, err := svc.Complete(context.Background(), profile.UserID, mission.Code); err != nil {
		t.Fatalf("failed to complete: %v", err)
	}

	reader, err := svc.Certificate(context.Background(), profile.UserID, mission.Code, "Kai")
	if err != nil {
		t.Fatalf("failed to render certificate: %v", err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("failed to read certificate: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected PDF bytes")
	}
}

func TestListFiltersAR(t *testing.T) {
	svc, _ := newTestService(t)
	seedMission(t, svc)
	if _, err := svc.Create(context.Background(), domain.CreateRequest{
		Title:      "Park Scanner",
		AR:         true,
		CoinReward: 10,
	}); err != nil {
		t.Fatalf("failed to create AR mission: %v", err)
	}

	all, err := svc.List(context.Background(), false)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 missions, got %d", len(all))
	}

	ar, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("failed to list AR: %v", err)
	}
	if len(ar) != 1 || !ar[0].AR {
		t.Fatalf("expected 1 AR mission, got %d", len(ar))
	}
}
