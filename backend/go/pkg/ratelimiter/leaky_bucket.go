package ratelimiter

import (
	"sync"
	"time"
)

// LeakyBucket drains at a steady rate; a request is admitted while the bucket has room.
type LeakyBucket struct {
	rate     float64
	capacity float64
	level    float64
	last     time.Time
	now      clock
	mu       sync.Mutex
}

// NewLeakyBucket creates an empty bucket that drains rate requests per second.
func NewLeakyBucket(rate float64, capacity int) *LeakyBucket {
	return newLeakyBucket(rate, capacity, time.Now)
}

func newLeakyBucket(rate float64, capacity int, now clock) *LeakyBucket {
	return &LeakyBucket{
		rate:     rate,
		capacity: float64(capacity),
		last:     now(),
		now:      now,
	}
}

// Allow drains the bucket for the elapsed time and adds one request if it fits.
func (lb *LeakyBucket) Allow() bool {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	now := lb.now()
	if elapsed := now.Sub(lb.last); elapsed > 0 {
		lb.level -= elapsed.Seconds() * lb.rate
		if lb.level < 0 {
			lb.level = 0
		}
		lb.last = now
	}

	if lb.level+1 <= lb.capacity {
		lb.level++
		return true
	}
	return false
}
