package migration

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authdomain "github.com/carbonctrl/carbonctrl/internal/auth/domain"
	"github.com/carbonctrl/carbonctrl/internal/config"
	gamedomain "github.com/carbonctrl/carbonctrl/internal/game/domain"
	missiondomain "github.com/carbonctrl/carbonctrl/internal/mission/domain"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	quizdomain "github.com/carbonctrl/carbonctrl/internal/quiz/domain"
	rewarddomain "github.com/carbonctrl/carbonctrl/internal/reward/domain"
	"github.com/carbonctrl/carbonctrl/internal/seed"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and anything else without versioned migrations.
			if err := conn.AutoMigrate(
				&authdomain.User{},
				&authdomain.Session{},
				&profiledomain.Profile{},
				&quizdomain.Quiz{},
				&quizdomain.Attempt{},
				&gamedomain.Game{},
				&gamedomain.ScoreRecord{},
				&missiondomain.Mission{},
				&missiondomain.Completion{},
				&rewarddomain.Redemption{},
			); err != nil {
				return err
			}
		}

		if err := seed.EnsureCatalog(conn); err != nil {
			return err
		}
		if cfg.SeedDemoData {
			if err := seed.EnsureDemoAdmin(conn, log); err != nil {
				return err
			}
		}
		return nil
	}),
)
