package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/carbonctrl/carbonctrl/internal/config"
)

type Repository interface {
	CreateRedemption(ctx context.Context, redemption *Redemption) error
	ListRedemptions(ctx context.Context, userID snowflake.ID) ([]Redemption, error)
}

type Service interface {
	Catalog(ctx context.Context) []config.RewardItem
	Redeem(ctx context.Context, userID snowflake.ID, itemCode string) (*RedeemResult, error)
	Redemptions(ctx context.Context, userID snowflake.ID) ([]Redemption, error)
}

type RedeemResult struct {
	Redemption *Redemption
	Balance    int64
}
