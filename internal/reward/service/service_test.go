package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/carbonctrl/carbonctrl/internal/auth/domain"
	"github.com/carbonctrl/carbonctrl/internal/clock"
	"github.com/carbonctrl/carbonctrl/internal/config"
	"github.com/carbonctrl/carbonctrl/internal/observability/metrics"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	profilerepo "github.com/carbonctrl/carbonctrl/internal/profile/repository"
	profileservice "github.com/carbonctrl/carbonctrl/internal/profile/service"
	"github.com/carbonctrl/carbonctrl/internal/reward/domain"
	"github.com/carbonctrl/carbonctrl/internal/reward/repository"
	"github.com/carbonctrl/carbonctrl/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, profiledomain.Service) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Redemption{}, &profiledomain.Profile{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	catalog, err := config.NewRewardCatalogHolder()
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}

	profiles := profileservice.New(zap.NewNop(), profilerepo.New(dbConn), fake)
	svc := New(zap.NewNop(), repository.New(dbConn), catalog, profiles, node, fake, metrics.NewNop())
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

func TestCatalogListsDefaultItems(t *testing.T) {
	svc, _ := newTestService(t)

	items := svc.Catalog(context.Background())
	if len(items) != 4 {
		t.Fatalf("expected 4 default items, got %d", len(items))
	}
	found := false
	for _, item := range items {
		if item.Code == "water-bottle" && item.Cost == 20 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected water-bottle at 20 coins")
	}
}

func TestRedeemDebitsBalance(t *testing.T) {
	svc, profiles := newTestService(t)
	profile := resolveProfile(t, profiles, 1)

	result, err := svc.Redeem(context.Background(), profile.UserID, "water-bottle")
	if err != nil {
		t.Fatalf("failed to redeem: %v", err)
	}
	if result.Balance != profiledomain.StartingEcoCoins-20 {
		t.Fatalf("expected balance %d, got %d", profiledomain.StartingEcoCoins-20, result.Balance)
	}
	if result.Redemption.Reference == "" {
		t.Fatal("expected redemption reference")
	}

	redemptions, err := svc.Redemptions(context.Background(), profile.UserID)
	if err != nil {
		t.Fatalf("failed to list redemptions: %v", err)
	}
	if len(redemptions) != 1 || redemptions[0].ItemCode != "water-bottle" {
		t.Fatalf("expected one water-bottle redemption, got %+v", redemptions)
	}
}

func TestRedeemInsufficientCoins(t *testing.T) {
	svc, profiles := newTestService(t)
	profile := resolveProfile(t, profiles, 1)

	// solar-charger costs 150, the starting grant is 100
	_, err := svc.Redeem(context.Background(), profile.UserID, "solar-charger")
	if err != domain.ErrInsufficientCoins {
		t.Fatalf("expected ErrInsufficientCoins, got %v", err)
	}

	reloaded, err := profiles.Get(context.Background(), profile.UserID)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if reloaded.EcoCoins != profiledomain.StartingEcoCoins {
		t.Fatalf("expected untouched balance, got %d", reloaded.EcoCoins)
	}
}

func TestRedeemWriteFailureRefundsCoins(t *testing.T) {
	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Redemption{}, &profiledomain.Profile{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	catalog, err := config.NewRewardCatalogHolder()
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	profiles := profileservice.New(zap.NewNop(), profilerepo.New(dbConn), fake)
	svc := New(zap.NewNop(), repository.New(dbConn), catalog, profiles, node, fake, metrics.NewNop())
	profile := resolveProfile(t, profiles, 1)

	// Break the redemption table so the write after the debit fails.
	if err := dbConn.Migrator().DropTable(&domain.Redemption{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	if _, err := svc.Redeem(context.Background(), profile.UserID, "water-bottle"); err == nil {
		t.Fatal("expected redeem to fail")
	}

	reloaded, err := profiles.Get(context.Background(), profile.UserID)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if reloaded.EcoCoins != profiledomain.StartingEcoCoins {
		t.Fatalf("expected coins refunded to %d, got %d", profiledomain.StartingEcoCoins, reloaded.EcoCoins)
	}
}

func TestRedeemUnknownItem(t *testing.T) {
	svc, profiles := newTestService(t)
	profile := resolveProfile(t, profiles, 1)

	_, err := svc.Redeem(context.Background(), profile.UserID, "no-such-item")
	if err != domain.ErrItemNotFound {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}
