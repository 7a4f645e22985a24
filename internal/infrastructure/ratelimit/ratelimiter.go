package ratelimit

import (
	"context"
	"time"
)

// Window is one sliding-window limit. A non-positive Limit disables it.
type Window struct {
	Limit    int
	Duration time.Duration
}

type RateLimitConfig struct {
	Windows []Window
}

// PerWindow builds a config with a single window.
func PerWindow(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Windows: []Window{{Limit: limit, Duration: window}}}
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, config RateLimitConfig) (bool, error)
	GetUsed(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}
