package ratelimiter

import (
	"container/list"
	"sync"
	"time"
)

// SlidingWindowLog admits at most limit requests in any window-long interval.
type SlidingWindowLog struct {
	limit  int
	window time.Duration
	log    *list.List // 按时间排序的请求时间戳
	now    clock
	mu     sync.Mutex
}

// NewSlidingWindowLog creates an empty log.
func NewSlidingWindowLog(limit int, window time.Duration) *SlidingWindowLog {
	return newSlidingWindowLog(limit, window, time.Now)
}

func newSlidingWindowLog(limit int, window time.Duration, now clock) *SlidingWindowLog {
	return &SlidingWindowLog{
		limit:  limit,
		window: window,
		log:    list.New(),
		now:    now,
	}
}

// Allow evicts timestamps older than the window and records the request if under the limit.
func (swl *SlidingWindowLog) Allow() bool {
	swl.mu.Lock()
	defer swl.mu.Unlock()

	now := swl.now()
	boundary := now.Add(-swl.window)
	for e := swl.log.Front(); e != nil && !e.Value.(time.Time).After(boundary); e = swl.log.Front() {
		swl.log.Remove(e)
	}

	if swl.log.Len() < swl.limit {
		swl.log.PushBack(now)
		return true
	}
	return false
}
