// Package search 提供本地事实引擎没有数据时使用的网络搜索回退。
package search

import (
	"context"
	"fmt"

	"Jaffer/backend/go/internal/config"
)

// Searcher 为查询返回纯文本摘要，空摘要也是合法结果。
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Availability 由能够报告自身当前不可达的搜索客户端实现。
type Availability interface {
	Available() bool
}

// IsAvailable 报告 s 是否已配置，并在能判断时报告是否可达。
func IsAvailable(s Searcher) bool {
	if s == nil {
		return false
	}
	if a, ok := s.(Availability); ok {
		return a.Available()
	}
	return true
}

// New 创建配置的搜索客户端，provider 为 "none" 时返回 nil, nil。
func New(cfg config.SearchConfig, breaker config.CircuitBreakerConfig) (Searcher, error) {
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "duckduckgo":
		return NewDuckDuckGo(cfg, breaker)
	default:
		return nil, fmt.Errorf("unsupported search provider: %s", cfg.Provider)
	}
}
