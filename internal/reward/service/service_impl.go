package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/carbonctrl/carbonctrl/internal/clock"
	"github.com/carbonctrl/carbonctrl/internal/config"
	"github.com/carbonctrl/carbonctrl/internal/observability/metrics"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	"github.com/carbonctrl/carbonctrl/internal/reward/domain"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type Service struct {
	log      *zap.Logger
	repo     domain.Repository
	catalog  *config.RewardCatalogHolder
	profiles profiledomain.Service
	genID    *snowflake.Node
	clock    clock.Clock
	metrics  *metrics.Metrics
}

func New(log *zap.Logger, repo domain.Repository, catalog *config.RewardCatalogHolder, profiles profiledomain.Service, genID *snowflake.Node, clk clock.Clock, m *metrics.Metrics) domain.Service {
	return &Service{
		log:      log.Named("reward.service"),
		repo:     repo,
		catalog:  catalog,
		profiles: profiles,
		genID:    genID,
		clock:    clk,
		metrics:  m,
	}
}

func (s *Service) Catalog(ctx context.Context) []config.RewardItem {
	_ = ctx
	return s.catalog.Current().Items
}

func (s *Service) Redeem(ctx context.Context, userID snowflake.ID, itemCode string) (*domain.RedeemResult, error) {
	item, ok := s.catalog.Item(strings.TrimSpace(itemCode))
	if !ok {
		return nil, domain.ErrItemNotFound
	}

	profile, err := s.profiles.SpendCoins(ctx, userID, item.Cost)
	if err != nil {
		if errors.Is(err, profiledomain.ErrInsufficientCoins) {
			return nil, domain.ErrInsufficientCoins
		}
		return nil, err
	}

	redemption := &domain.Redemption{
		ID:        s.genID.Generate(),
		UserID:    userID,
		ItemCode:  item.Code,
		ItemName:  item.Name,
		Cost:      item.Cost,
		Reference: ulid.Make().String(),
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateRedemption(ctx, redemption); err != nil {
		// The debit already landed, put the coins back.
		if _, refundErr := s.profiles.Award(ctx, userID, profiledomain.Award{EcoCoins: item.Cost}); refundErr != nil {
			s.log.Error("failed to refund coins after redemption write error",
				zap.String("user_id", userID.String()),
				zap.String("item", item.Code),
				zap.Int64("cost", item.Cost),
				zap.Error(refundErr),
			)
		}
		return nil, err
	}

	s.metrics.RecordCoinsSpent(ctx, item.Code, item.Cost)
	s.log.Info("redeemed reward",
		zap.String("user_id", userID.String()),
		zap.String("item", item.Code),
		zap.Int64("cost", item.Cost),
	)

	return &domain.RedeemResult{
		Redemption: redemption,
		Balance:    profile.EcoCoins,
	}, nil
}

func (s *Service) Redemptions(ctx context.Context, userID snowflake.ID) ([]domain.Redemption, error) {
	return s.repo.ListRedemptions(ctx, userID)
}
