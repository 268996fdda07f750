package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/carbonctrl/carbonctrl/internal/auth/domain"
	"github.com/carbonctrl/carbonctrl/internal/clock"
	"github.com/carbonctrl/carbonctrl/internal/profile/domain"
	"github.com/carbonctrl/carbonctrl/internal/profile/repository"
	"github.com/carbonctrl/carbonctrl/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Profile{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	return New(zap.NewNop(), repository.New(dbConn), fake), fake
}

func testUser(id int64) *authdomain.User {
	return &authdomain.User{
		ID:          snowflake.ID(id),
		Email:       "kai@example.com",
		DisplayName: "Kai",
		Role:        authdomain.RoleStudent,
	}
}

func TestResolveCreatesStartingGrant(t *testing.T) {
	svc, _ := newTestService(t)

	profile, err := svc.Resolve(context.Background(), testUser(1))
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}
	if profile.EcoCoins != domain.StartingEcoCoins {
		t.Fatalf("expected %d starting coins, got %d", domain.StartingEcoCoins, profile.EcoCoins)
	}
	if profile.Level != domain.StartingLevel {
		t.Fatalf("expected level %d, got %d", domain.StartingLevel, profile.Level)
	}
	if !profile.HasBadge(domain.WelcomeBadge) {
		t.Fatal("expected welcome badge")
	}
	if profile.Degraded {
		t.Fatal("expected persisted profile, not a degraded default")
	}
}

func TestResolveExistingProfileUntouched(t *testing.T) {
	svc, _ := newTestService(t)
	user := testUser(1)

	first, err := svc.Resolve(context.Background(), user)
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}

	level := 2
	if _, err := svc.Update(context.Background(), user.ID, domain.UpdateRequest{Level: &level}); err != nil {
		t.Fatalf("failed to update: %v", err)
	}

	again, err := svc.Resolve(context.Background(), user)
	if err != nil {
		t.Fatalf("failed to re-resolve: %v", err)
	}
	if again.Level != 2 {
		t.Fatalf("expected persisted level 2 after reload, got %d", again.Level)
	}
	if !again.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("expected resolve to leave existing profile untouched")
	}
}

func TestResolveBackfillsLegacyRowDefaults(t *testing.T) {
	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Profile{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := New(zap.NewNop(), repository.New(dbConn), fake)

	// Row written before level, badges and role carried schema defaults.
	now := fake.Now()
	if err := dbConn.Exec(
		`INSERT INTO profiles (user_id, email, display_name, role, eco_score, eco_coins, level, badges, created_at, last_login_at, updated_at)
		 VALUES (?, ?, ?, '', 40, 10, 0, NULL, ?, ?, ?)`,
		int64(9), "kai@example.com", "Kai", now, now, now,
	).Error; err != nil {
		t.Fatalf("failed to seed legacy row: %v", err)
	}

	profile, err := svc.Resolve(context.Background(), testUser(9))
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}
	if profile.Level != domain.StartingLevel {
		t.Fatalf("expected level backfilled to %d, got %d", domain.StartingLevel, profile.Level)
	}
	if profile.Badges == nil || len(profile.Badges) != 0 {
		t.Fatalf("expected empty badge list, got %v", profile.Badges)
	}
	if profile.Role != "student" {
		t.Fatalf("expected default role, got %q", profile.Role)
	}
	if profile.EcoCoins != 10 || profile.EcoScore != 40 {
		t.Fatalf("expected stored balances untouched, got coins=%d score=%d", profile.EcoCoins, profile.EcoScore)
	}
}

func TestUpdatePartialMerge(t *testing.T) {
	svc, _ := newTestService(t)
	user := testUser(1)

	if _, err := svc.Resolve(context.Background(), user); err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}

	score := int64(250)
	updated, err := svc.Update(context.Background(), user.ID, domain.UpdateRequest{EcoScore: &score})
	if err != nil {
		t.Fatalf("failed to update: %v", err)
	}
	if updated.EcoScore != 250 {
		t.Fatalf("expected eco score 250, got %d", updated.EcoScore)
	}
	if updated.EcoCoins != domain.StartingEcoCoins {
		t.Fatalf("expected untouched coin balance, got %d", updated.EcoCoins)
	}
	if updated.DisplayName != "Kai" {
		t.Fatalf("expected untouched display name, got %s", updated.DisplayName)
	}
}

func TestUpdateMissingProfile(t *testing.T) {
	svc, _ := newTestService(t)

	level := 2
	_, err := svc.Update(context.Background(), snowflake.ID(99), domain.UpdateRequest{Level: &level})
	if err != domain.ErrProfileNotFound {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestAwardRecomputesLevelAndGrantsBadge(t *testing.T) {
	svc, _ := newTestService(t)
	user := testUser(1)

	if _, err := svc.Resolve(context.Background(), user); err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}

	profile, err := svc.Award(context.Background(), user.ID, domain.Award{
		EcoCoins: 30,
		EcoScore: 120,
		Badge:    "quiz-master",
	})
	if err != nil {
		t.Fatalf("failed to award: %v", err)
	}
	if profile.EcoCoins != domain.StartingEcoCoins+30 {
		t.Fatalf("expected %d coins, got %d", domain.StartingEcoCoins+30, profile.EcoCoins)
	}
	if profile.Level != 2 {
		t.Fatalf("expected level 2 at 120 score, got %d", profile.Level)
	}
	if !profile.HasBadge("quiz-master") {
		t.Fatal("expected quiz-master badge")
	}

	again, err := svc.Award(context.Background(), user.ID, domain.Award{EcoScore: 10, Badge: "quiz-master"})
	if err != nil {
		t.Fatalf("failed second award: %v", err)
	}
	count := 0
	for _, b := range again.Badges {
		if b == "quiz-master" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected badge granted once, got %d", count)
	}
}

func TestSpendCoinsInsufficientBalance(t *testing.T) {
	svc, _ := newTestService(t)
	user := testUser(1)

	if _, err := svc.Resolve(context.Background(), user); err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}

	_, err := svc.SpendCoins(context.Background(), user.ID, domain.StartingEcoCoins+1)
	if err != domain.ErrInsufficientCoins {
		t.Fatalf("expected ErrInsufficientCoins, got %v", err)
	}

	profile, err := svc.SpendCoins(context.Background(), user.ID, 20)
	if err != nil {
		t.Fatalf("failed to spend: %v", err)
	}
	if profile.EcoCoins != domain.StartingEcoCoins-20 {
		t.Fatalf("expected %d coins, got %d", domain.StartingEcoCoins-20, profile.EcoCoins)
	}
}

func TestTouchLastLogin(t *testing.T) {
	svc, fake := newTestService(t)
	user := testUser(1)

	profile, err := svc.Resolve(context.Background(), user)
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}

	fake.Advance(48 * time.Hour)
	if err := svc.TouchLastLogin(context.Background(), user.ID); err != nil {
		t.Fatalf("failed to touch: %v", err)
	}

	reloaded, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if !reloaded.LastLoginAt.After(profile.LastLoginAt) {
		t.Fatal("expected last login to advance")
	}
}
