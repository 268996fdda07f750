package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/carbonctrl/carbonctrl/internal/auth/domain"
)

type Service interface {
	// Resolve returns the profile for an authenticated account, creating
	// it with the starting grant on first sign-in.
	Resolve(ctx context.Context, user *authdomain.User) (*Profile, error)
	Get(ctx context.Context, userID snowflake.ID) (*Profile, error)
	Update(ctx context.Context, userID snowflake.ID, req UpdateRequest) (*Profile, error)
	Award(ctx context.Context, userID snowflake.ID, award Award) (*Profile, error)
	SpendCoins(ctx context.Context, userID snowflake.ID, coins int64) (*Profile, error)
	GrantBadge(ctx context.Context, userID snowflake.ID, badge string) (*Profile, error)
	TouchLastLogin(ctx context.Context, userID snowflake.ID) error
}

// UpdateRequest carries a partial profile update. Nil fields are left
// untouched.
type UpdateRequest struct {
	DisplayName *string
	EcoScore    *int64
	EcoCoins    *int64
	Level       *int
	Badges      []string
}

// Award bundles the gameplay rewards applied after an activity.
type Award struct {
	EcoCoins int64
	EcoScore int64
	Badge    string
}
