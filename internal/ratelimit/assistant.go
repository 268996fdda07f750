package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/carbonctrl/carbonctrl/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keyAssistantUser = "assistant:user:%s"

// AssistantLimiter throttles per-user calls to the AI tutor. Completion
// requests are the only metered upstream, so only those endpoints are
// limited. A nil limiter (rate limiting disabled) allows everything.
type AssistantLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewAssistantLimiter(cfg config.Config) (*AssistantLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.AssistantRate <= 0 || limitCfg.AssistantBurst <= 0 {
		return nil, errors.New("assistant rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &AssistantLimiter{
		bucket: NewTokenBucket(client),
		rate:   limitCfg.AssistantRate,
		burst:  limitCfg.AssistantBurst,
	}, nil
}

// Allow consumes one request from the user's bucket.
func (l *AssistantLimiter) Allow(ctx context.Context, userID snowflake.ID) (*Result, error) {
	if l == nil {
		return &Result{Allowed: true}, nil
	}
	key := fmt.Sprintf(keyAssistantUser, userID.String())
	return l.bucket.Allow(ctx, key, l.rate, l.burst)
}
