package api

import (
	"time"

	"Jaffer/backend/go/internal/metrics"
	"Jaffer/backend/go/pkg/circuitbreaker"
	"Jaffer/backend/go/pkg/httpmiddleware"
	"Jaffer/backend/go/pkg/logger"
	"Jaffer/backend/go/pkg/ratelimiter"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterOptions 控制路由器上的可选中间件。零值即可使用。
type RouterOptions struct {
	AllowedOrigins []string
	RateLimiter    ratelimiter.RateLimiter       // 为空时不限流
	Breaker        circuitbreaker.CircuitBreaker // 为空时不熔断
	Metrics        *metrics.Metrics              // 为空时不暴露 /metrics
	Logger         *logger.Logger
}

// SetupRouter 配置和返回一个 Gin 引擎实例。
func SetupRouter(h *Handler, opts RouterOptions) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = logger.New("chat_service", "", "")
	}

	r := gin.New()
	r.Use(httpmiddleware.Trace(), httpmiddleware.RequestLogger(log), Recovery(log))

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", httpmiddleware.TraceIDHeader},
			ExposeHeaders:    []string{httpmiddleware.TraceIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	r.GET("/health", h.Health)

	// 业务路由受限流和熔断保护，探测接口不受影响。
	chat := r.Group("/")
	if opts.RateLimiter != nil {
		chat.Use(httpmiddleware.RateLimit(opts.RateLimiter))
	}
	if opts.Breaker != nil {
		chat.Use(httpmiddleware.CircuitBreak(opts.Breaker))
	}
	{
		chat.GET("/profile", h.Profile)
		chat.POST("/chat", h.Chat)
		chat.GET("/history", h.History)
		chat.POST("/clear", h.Clear)
	}

	return r
}
