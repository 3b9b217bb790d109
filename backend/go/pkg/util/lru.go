package util

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// CacheConfig 用于配置LRU缓存的行为。
type CacheConfig struct {
	// Capacity 是缓存的最大元素数量，必须大于0。
	Capacity int
	// TTL 是元素的存活时间。如果为0，则元素永不过期。
	TTL time.Duration
	// Now 返回当前时间，为空时使用 time.Now，测试中可替换。
	Now func() time.Time
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// LRUCache 是一个支持泛型、线程安全、可选TTL的LRU缓存。
type LRUCache[K comparable, V any] struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time

	mu    sync.Mutex
	ll    *list.List
	items map[K]*list.Element
}

// NewLRU 使用指定的配置创建一个LRU缓存实例。
func NewLRU[K comparable, V any](cfg CacheConfig) (*LRUCache[K, V], error) {
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("LRU 缓存容量必须大于0，当前为 %d", cfg.Capacity)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &LRUCache[K, V]{
		capacity: cfg.Capacity,
		ttl:      cfg.TTL,
		now:      now,
		ll:       list.New(),
		items:    make(map[K]*list.Element),
	}, nil
}

// Get 根据键获取一个值，过期的元素会被移除并视为未命中。
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	if c.ttl > 0 && !c.now().Before(e.expiresAt) {
		c.remove(el)
		return zero, false
	}
	c.ll.MoveToFront(el)
	return e.value, true
}

// Put 添加或更新一个键值对，超出容量时淘汰最久未使用的元素。
func (c *LRUCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value = value
		e.expiresAt = expiresAt
		c.ll.MoveToFront(el)
		return
	}

	c.items[key] = c.ll.PushFront(&entry[K, V]{key: key, value: value, expiresAt: expiresAt})
	for c.ll.Len() > c.capacity {
		c.remove(c.ll.Back())
	}
}

// Delete 移除一个键。
func (c *LRUCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.remove(el)
	}
}

// Len 返回当前缓存中的条目数量。
func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// remove 假设已持有锁。
func (c *LRUCache[K, V]) remove(el *list.Element) {
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry[K, V]).key)
}
