package service

import (
	"context"
	"strings"
	"time"

	"Jaffer/backend/go/internal/config"
	"Jaffer/backend/go/internal/metrics"
	"Jaffer/backend/go/internal/models"
	"Jaffer/backend/go/internal/search"
	"Jaffer/backend/go/pkg/logger"
)

// NoDataSentinel 出现在事实中表示本地引擎无法回答。
const NoDataSentinel = "No data found"

// DefaultSearchTimeout 是单次网络搜索的超时。
const DefaultSearchTimeout = 10 * time.Second

// FallbackResolver 决定是否回退到网络搜索，并执行搜索。
type FallbackResolver struct {
	Searcher    search.Searcher // 为空时不回退
	QuerySuffix string          // 追加到用户消息之后，为空时省略
	Timeout     time.Duration

	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewFallbackResolver 根据搜索配置创建 FallbackResolver。
func NewFallbackResolver(s search.Searcher, cfg config.SearchConfig, log *logger.Logger, m *metrics.Metrics) *FallbackResolver {
	return &FallbackResolver{
		Searcher:    s,
		QuerySuffix: cfg.QuerySuffix,
		Timeout:     config.Duration(cfg.Timeout, DefaultSearchTimeout),
		log:         log,
		metrics:     m,
	}
}

// ShouldEscalate 当且仅当事实包含无数据标记，且搜索客户端已配置并可达时为 true。
func (r *FallbackResolver) ShouldEscalate(fact models.LocalFact) bool {
	if r == nil || !strings.Contains(fact.Fact, NoDataSentinel) {
		return false
	}
	return search.IsAvailable(r.Searcher)
}

// Resolve 返回网络摘要，以及是否真的发起了搜索。
// 不需要回退或搜索失败时摘要为空，失败只记录日志。
func (r *FallbackResolver) Resolve(ctx context.Context, fact models.LocalFact, userMessage string) (string, bool) {
	if !r.ShouldEscalate(fact) {
		return "", false
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultSearchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	snippet, err := r.Searcher.Search(ctx, r.query(userMessage))
	if err != nil {
		r.metrics.WebEscalated("error")
		if r.log != nil {
			r.log.WithTrace(TraceID(ctx)).
				WithError(models.NewErrorInfo("SearchFailure", err)).
				Warn("网络搜索失败，继续使用空的网络数据")
		}
		return "", true
	}
	if strings.TrimSpace(snippet) == "" {
		r.metrics.WebEscalated("empty")
	} else {
		r.metrics.WebEscalated("hit")
	}
	return snippet, true
}

func (r *FallbackResolver) query(userMessage string) string {
	if r.QuerySuffix == "" {
		return userMessage
	}
	return userMessage + " " + r.QuerySuffix
}
