package ratelimiter

import (
	"fmt"
	"time"

	"Jaffer/backend/go/internal/config"
)

// RateLimiter is the interface for rate limiting.
type RateLimiter interface {
	// Allow returns true if the request is allowed, otherwise returns false.
	Allow() bool
}

// clock lets tests control time.
type clock func() time.Time

// New builds the limiter selected by cfg.Algorithm. tokenBucket is the default.
// leakyBucket reads the tokenBucket section and slidingWindowLog the fixedWindow section.
func New(cfg config.RateLimiterConfig) (RateLimiter, error) {
	switch cfg.Algorithm {
	case "", "tokenBucket":
		if cfg.TokenBucket.Rate <= 0 || cfg.TokenBucket.Capacity <= 0 {
			return nil, fmt.Errorf("tokenBucket requires positive rate and capacity")
		}
		return NewTokenBucket(cfg.TokenBucket.Rate, cfg.TokenBucket.Capacity), nil
	case "leakyBucket":
		if cfg.TokenBucket.Rate <= 0 || cfg.TokenBucket.Capacity <= 0 {
			return nil, fmt.Errorf("leakyBucket requires positive rate and capacity")
		}
		return NewLeakyBucket(cfg.TokenBucket.Rate, cfg.TokenBucket.Capacity), nil
	case "fixedWindow", "slidingWindowLog":
		window, err := time.ParseDuration(cfg.FixedWindow.Window)
		if err != nil {
			return nil, fmt.Errorf("invalid %s duration: %w", cfg.Algorithm, err)
		}
		if cfg.FixedWindow.Limit <= 0 {
			return nil, fmt.Errorf("%s requires a positive limit", cfg.Algorithm)
		}
		if cfg.Algorithm == "slidingWindowLog" {
			return NewSlidingWindowLog(cfg.FixedWindow.Limit, window), nil
		}
		return NewFixedWindowCounter(cfg.FixedWindow.Limit, window), nil
	default:
		return nil, fmt.Errorf("unknown rate limiter algorithm: %s", cfg.Algorithm)
	}
}
