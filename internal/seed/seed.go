// Package seed loads the starter content catalog and the bootstrap admin
// account so a fresh install has playable quizzes, games, and missions.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authdomain "github.com/carbonctrl/carbonctrl/internal/auth/domain"
	"github.com/carbonctrl/carbonctrl/internal/auth/password"
	gamedomain "github.com/carbonctrl/carbonctrl/internal/game/domain"
	missiondomain "github.com/carbonctrl/carbonctrl/internal/mission/domain"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	quizdomain "github.com/carbonctrl/carbonctrl/internal/quiz/domain"
)

const (
	defaultAdminEmail    = "admin@carbonctrl.app"
	defaultAdminPassword = "admin"
	defaultAdminDisplay  = "CarbonCtrl Admin"
)

// EnsureCatalog seeds the quiz, game, and mission catalogs. Each catalog is
// only written when its table is empty so operator edits survive restarts.
func EnsureCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureQuizzesTx(tx, node); err != nil {
			return err
		}
		if err := ensureGamesTx(tx, node); err != nil {
			return err
		}
		return ensureMissionsTx(tx, node)
	})
}

// EnsureDemoAdmin creates a local admin account when no admin exists yet.
// Intended for development and self-hosted installs.
func EnsureDemoAdmin(db *gorm.DB, log *zap.Logger) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&authdomain.User{}).Where("role = ?", authdomain.RoleAdmin).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hash, err := password.Hash(defaultAdminPassword)
		if err != nil {
			return err
		}

		id := node.Generate()
		user := &authdomain.User{
			ID:           id,
			ExternalID:   id.String(),
			Provider:     "local",
			Email:        defaultAdminEmail,
			DisplayName:  defaultAdminDisplay,
			Role:         authdomain.RoleAdmin,
			PasswordHash: &hash,
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile := &profiledomain.Profile{
			UserID:      user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        string(user.Role),
			EcoCoins:    profiledomain.StartingEcoCoins,
			Level:       profiledomain.StartingLevel,
			Badges:      []string{profiledomain.WelcomeBadge},
		}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}

		log.Named("seed").Warn("created default admin account, change the password",
			zap.String("email", defaultAdminEmail),
		)
		return nil
	})
}

func ensureQuizzesTx(tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.Model(&quizdomain.Quiz{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, quiz := range quizCatalog() {
		quiz.ID = node.Generate()
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureGamesTx(tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.Model(&gamedomain.Game{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, game := range gameCatalog() {
		game.ID = node.Generate()
		if err := tx.Create(&game).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureMissionsTx(tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.Model(&missiondomain.Mission{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, mission := range missionCatalog() {
		mission.ID = node.Generate()
		if err := tx.Create(&mission).Error; err != nil {
			return err
		}
	}
	return nil
}
