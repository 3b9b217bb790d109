package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Jaffer/backend/go/internal/config"
	"Jaffer/backend/go/pkg/util"

	"github.com/go-redis/redis/v8"
)

// Store 是以查询为键的摘要缓存。
type Store interface {
	Get(ctx context.Context, query string) (string, bool, error)
	Set(ctx context.Context, query, snippet string) error
}

// Cached 用 Store 包装 Searcher，只缓存成功且非空的摘要。
type Cached struct {
	next  Searcher
	store Store
}

// NewCached 用 store 包装 next。
func NewCached(next Searcher, store Store) *Cached {
	return &Cached{next: next, store: store}
}

// Available 委托给被包装的搜索客户端。
func (c *Cached) Available() bool {
	return IsAvailable(c.next)
}

// Search 优先从缓存读取，缓存出错时直接调用被包装的搜索客户端。
func (c *Cached) Search(ctx context.Context, query string) (string, error) {
	if snippet, ok, err := c.store.Get(ctx, query); err == nil && ok {
		return snippet, nil
	}
	snippet, err := c.next.Search(ctx, query)
	if err != nil {
		return "", err
	}
	if snippet != "" {
		_ = c.store.Set(ctx, query, snippet)
	}
	return snippet, nil
}

// LRUStore 在进程内存中保存摘要。
type LRUStore struct {
	cache *util.LRUCache[string, string]
}

// NewLRUStore 创建一个内存缓存。
func NewLRUStore(cfg util.CacheConfig) (*LRUStore, error) {
	cache, err := util.NewLRU[string, string](cfg)
	if err != nil {
		return nil, err
	}
	return &LRUStore{cache: cache}, nil
}

func (s *LRUStore) Get(_ context.Context, query string) (string, bool, error) {
	v, ok := s.cache.Get(query)
	return v, ok, nil
}

func (s *LRUStore) Set(_ context.Context, query, snippet string) error {
	s.cache.Put(query, snippet)
	return nil
}

// RedisStore 通过 Redis 在多个实例之间共享摘要。
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore 使用 client 创建缓存，键以 "search:" 为前缀。
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, prefix: "search:"}
}

func (s *RedisStore) Get(ctx context.Context, query string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+query).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, query, snippet string) error {
	return s.client.Set(ctx, s.prefix+query, snippet, s.ttl).Err()
}

// WithCache 按 cfg 包装 s，只有 redis 后端要求 rdb 非空。
func WithCache(s Searcher, cfg config.SearchCacheConfig, rdb *redis.Client) (Searcher, error) {
	if s == nil {
		return nil, nil
	}
	ttl := config.Duration(cfg.TTL, 10*time.Minute)
	switch cfg.Backend {
	case "", "none":
		return s, nil
	case "lru":
		store, err := NewLRUStore(util.CacheConfig{Capacity: cfg.Capacity, TTL: ttl})
		if err != nil {
			return nil, err
		}
		return NewCached(s, store), nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis search cache requires a redis client")
		}
		return NewCached(s, NewRedisStore(rdb, ttl)), nil
	default:
		return nil, fmt.Errorf("unsupported search cache backend: %s", cfg.Backend)
	}
}
