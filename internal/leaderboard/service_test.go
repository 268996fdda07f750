package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/carbonctrl/carbonctrl/internal/cache"
	"github.com/carbonctrl/carbonctrl/internal/clock"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	profilerepo "github.com/carbonctrl/carbonctrl/internal/profile/repository"
	"github.com/carbonctrl/carbonctrl/pkg/db"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, profiledomain.Repository, *clock.FakeClock, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&profiledomain.Profile{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	repo := profilerepo.New(dbConn)
	c := cache.NewTTLCache[int, []Entry](cache.WithNowFunc[int, []Entry](fake.Now))
	return newWithCache(zap.NewNop(), repo, c), repo, fake, dbConn
}

func seedProfile(t *testing.T, repo profiledomain.Repository, id int64, name string, score int64) {
	t.Helper()
	if err := repo.Create(context.Background(), &profiledomain.Profile{
		UserID:      snowflake.ID(id),
		Email:       name + "@example.com",
		DisplayName: name,
		Role:        "student",
		EcoScore:    score,
		EcoCoins:    100,
		Level:       profiledomain.LevelForScore(score),
		Badges:      datatypes.NewJSONSlice([]string{profiledomain.WelcomeBadge}),
	}); err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}
}

func TestTopOrdersByScore(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	seedProfile(t, repo, 1, "ana", 120)
	seedProfile(t, repo, 2, "ben", 300)
	seedProfile(t, repo, 3, "cam", 40)

	entries, err := svc.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("failed to read leaderboard: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].DisplayName != "ben" || entries[0].Rank != 1 {
		t.Fatalf("expected ben first, got %+v", entries[0])
	}
	if entries[2].DisplayName != "cam" || entries[2].Rank != 3 {
		t.Fatalf("expected cam last, got %+v", entries[2])
	}
}

func TestTopServesCachedUntilTTL(t *testing.T) {
	svc, repo, fake, _ := newTestService(t)
	seedProfile(t, repo, 1, "ana", 120)

	first, err := svc.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("failed to read leaderboard: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(first))
	}

	seedProfile(t, repo, 2, "ben", 300)

	cached, err := svc.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("failed cached read: %v", err)
	}
	if len(cached) != 1 {
		t.Fatalf("expected stale cached read, got %d entries", len(cached))
	}

	fake.Advance(time.Minute)

	fresh, err := svc.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("failed fresh read: %v", err)
	}
	if len(fresh) != 2 || fresh[0].DisplayName != "ben" {
		t.Fatalf("expected refreshed board led by ben, got %+v", fresh)
	}
}

func TestRankOf(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	seedProfile(t, repo, 1, "ana", 120)
	seedProfile(t, repo, 2, "ben", 300)
	seedProfile(t, repo, 3, "cam", 40)

	standing, err := svc.RankOf(context.Background(), snowflake.ID(1))
	if err != nil {
		t.Fatalf("failed to rank: %v", err)
	}
	if standing.Rank != 2 || standing.EcoScore != 120 {
		t.Fatalf("expected rank 2 at 120, got %+v", standing)
	}

	if _, err := svc.RankOf(context.Background(), snowflake.ID(99)); err != profiledomain.ErrProfileNotFound {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
