package seed

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	authdomain "github.com/carbonctrl/carbonctrl/internal/auth/domain"
	gamedomain "github.com/carbonctrl/carbonctrl/internal/game/domain"
	missiondomain "github.com/carbonctrl/carbonctrl/internal/mission/domain"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	quizdomain "github.com/carbonctrl/carbonctrl/internal/quiz/domain"
	"github.com/carbonctrl/carbonctrl/pkg/db"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(
		&authdomain.User{},
		&profiledomain.Profile{},
		&quizdomain.Quiz{},
		&gamedomain.Game{},
		&missiondomain.Mission{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func count(t *testing.T, conn *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := conn.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	return n
}

func TestEnsureCatalogSeedsEmptyTables(t *testing.T) {
	conn := newTestDB(t)

	if err := EnsureCatalog(conn); err != nil {
		t.Fatalf("EnsureCatalog() error = %v", err)
	}

	if got := count(t, conn, &quizdomain.Quiz{}); got != 3 {
		t.Fatalf("expected 3 quizzes, got %d", got)
	}
	if got := count(t, conn, &gamedomain.Game{}); got != 4 {
		t.Fatalf("expected 4 games, got %d", got)
	}
	if got := count(t, conn, &missiondomain.Mission{}); got != 4 {
		t.Fatalf("expected 4 missions, got %d", got)
	}

	var quiz quizdomain.Quiz
	if err := conn.Where("code = ?", "recycling-basics").First(&quiz).Error; err != nil {
		t.Fatalf("failed to load seeded quiz: %v", err)
	}
	if len(quiz.Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(quiz.Questions))
	}
	if quiz.TotalPoints() != 100 {
		t.Fatalf("expected 100 total points, got %d", quiz.TotalPoints())
	}
}

func TestEnsureCatalogLeavesEditedTablesAlone(t *testing.T) {
	conn := newTestDB(t)

	if err := EnsureCatalog(conn); err != nil {
		t.Fatalf("EnsureCatalog() error = %v", err)
	}
	if err := conn.Where("code = ?", "renewable-energy").Delete(&quizdomain.Quiz{}).Error; err != nil {
		t.Fatalf("failed to delete quiz: %v", err)
	}

	if err := EnsureCatalog(conn); err != nil {
		t.Fatalf("EnsureCatalog() second run error = %v", err)
	}
	if got := count(t, conn, &quizdomain.Quiz{}); got != 2 {
		t.Fatalf("expected operator edit to survive, got %d quizzes", got)
	}
}

func TestEnsureDemoAdminCreatesAdminOnce(t *testing.T) {
	conn := newTestDB(t)

	if err := EnsureDemoAdmin(conn, zap.NewNop()); err != nil {
		t.Fatalf("EnsureDemoAdmin() error = %v", err)
	}
	if err := EnsureDemoAdmin(conn, zap.NewNop()); err != nil {
		t.Fatalf("EnsureDemoAdmin() second run error = %v", err)
	}

	var admins []authdomain.User
	if err := conn.Where("role = ?", authdomain.RoleAdmin).Find(&admins).Error; err != nil {
		t.Fatalf("failed to load admins: %v", err)
	}
	if len(admins) != 1 {
		t.Fatalf("expected exactly one admin, got %d", len(admins))
	}
	if admins[0].Email != "admin@carbonctrl.app" {
		t.Fatalf("unexpected admin email %q", admins[0].Email)
	}

	var profile profiledomain.Profile
	if err := conn.Where("user_id = ?", admins[0].ID).First(&profile).Error; err != nil {
		t.Fatalf("failed to load admin profile: %v", err)
	}
	if profile.EcoCoins != profiledomain.StartingEcoCoins {
		t.Fatalf("expected starting coins, got %d", profile.EcoCoins)
	}
}
