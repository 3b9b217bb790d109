package ratelimiter

import (
	"sync"
	"time"
)

// FixedWindowCounter allows limit requests per window; the count resets when a window ends.
type FixedWindowCounter struct {
	limit       int
	window      time.Duration
	count       int
	windowStart time.Time
	now         clock
	mu          sync.Mutex
}

// NewFixedWindowCounter creates a counter whose first window starts now.
func NewFixedWindowCounter(limit int, window time.Duration) *FixedWindowCounter {
	return newFixedWindowCounter(limit, window, time.Now)
}

func newFixedWindowCounter(limit int, window time.Duration, now clock) *FixedWindowCounter {
	return &FixedWindowCounter{
		limit:       limit,
		window:      window,
		windowStart: now(),
		now:         now,
	}
}

// Allow reports whether the request fits into the current window.
func (f *FixedWindowCounter) Allow() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	if now.Sub(f.windowStart) >= f.window {
		f.windowStart = now
		f.count = 0
	}
	if f.count < f.limit {
		f.count++
		return true
	}
	return false
}
