package ratelimiter

import (
	"testing"
	"time"

	"Jaffer/backend/go/internal/config"
)

type manualClock struct{ t time.Time }

func (c *manualClock) now() time.Time { return c.t }

func TestTokenBucket(t *testing.T) {
	c := &manualClock{t: time.Unix(100, 0)}
	tb := newTokenBucket(1, 2, c.now)

	if !tb.Allow() || !tb.Allow() {
		t.Fatal("a full bucket should allow capacity requests")
	}
	if tb.Allow() {
		t.Fatal("an empty bucket should reject")
	}
	c.t = c.t.Add(time.Second)
	if !tb.Allow() {
		t.Fatal("one token should refill after one second")
	}
	c.t = c.t.Add(time.Hour)
	if !tb.Allow() || !tb.Allow() || tb.Allow() {
		t.Fatal("refill must be capped at capacity")
	}
}

func TestFixedWindowCounter(t *testing.T) {
	c := &manualClock{t: time.Unix(100, 0)}
	fw := newFixedWindowCounter(2, time.Minute, c.now)

	if !fw.Allow() || !fw.Allow() {
		t.Fatal("requests within the limit should pass")
	}
	if fw.Allow() {
		t.Fatal("third request in the window should be rejected")
	}
	c.t = c.t.Add(time.Minute)
	if !fw.Allow() {
		t.Fatal("a new window should reset the counter")
	}
}

func TestLeakyBucket(t *testing.T) {
	c := &manualClock{t: time.Unix(100, 0)}
	lb := newLeakyBucket(2, 2, c.now)

	if !lb.Allow() || !lb.Allow() {
		t.Fatal("an empty bucket should admit capacity requests")
	}
	if lb.Allow() {
		t.Fatal("a full bucket should reject")
	}
	c.t = c.t.Add(500 * time.Millisecond)
	if !lb.Allow() {
		t.Fatal("one slot should drain after half a second at rate 2")
	}
	if lb.Allow() {
		t.Fatal("bucket should be full again")
	}
}

func TestSlidingWindowLog(t *testing.T) {
	c := &manualClock{t: time.Unix(100, 0)}
	swl := newSlidingWindowLog(2, time.Minute, c.now)

	if !swl.Allow() {
		t.Fatal("first request should pass")
	}
	c.t = c.t.Add(30 * time.Second)
	if !swl.Allow() {
		t.Fatal("second request should pass")
	}
	if swl.Allow() {
		t.Fatal("third request inside the window should be rejected")
	}
	c.t = c.t.Add(30 * time.Second)
	if !swl.Allow() {
		t.Fatal("the first request has left the window")
	}
	if swl.Allow() {
		t.Fatal("the second request is still inside the window")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.RateLimiterConfig
		wantErr bool
	}{
		{"default token bucket", config.RateLimiterConfig{TokenBucket: config.TokenBucketConfig{Rate: 1, Capacity: 1}}, false},
		{"fixed window", config.RateLimiterConfig{Algorithm: "fixedWindow", FixedWindow: config.FixedWindowConfig{Limit: 3, Window: "1s"}}, false},
		{"bad window", config.RateLimiterConfig{Algorithm: "fixedWindow", FixedWindow: config.FixedWindowConfig{Limit: 3, Window: "later"}}, true},
		{"empty bucket", config.RateLimiterConfig{Algorithm: "tokenBucket"}, true},
		{"leaky bucket", config.RateLimiterConfig{Algorithm: "leakyBucket", TokenBucket: config.TokenBucketConfig{Rate: 1, Capacity: 1}}, false},
		{"empty leaky bucket", config.RateLimiterConfig{Algorithm: "leakyBucket"}, true},
		{"sliding window log", config.RateLimiterConfig{Algorithm: "slidingWindowLog", FixedWindow: config.FixedWindowConfig{Limit: 3, Window: "1s"}}, false},
		{"unknown", config.RateLimiterConfig{Algorithm: "slidingWindowCounter"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
