package httpmiddleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"Jaffer/backend/go/internal/models"
	"Jaffer/backend/go/pkg/circuitbreaker"
	"Jaffer/backend/go/pkg/logger"
	"Jaffer/backend/go/pkg/ratelimiter"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// TraceIDKey is the gin context key holding the request trace id.
	TraceIDKey = "traceID"
	// TraceIDHeader is read from (and echoed to) clients.
	TraceIDHeader = "X-Request-ID"
)

// RateLimit rejects requests with 429 when the limiter has no capacity left.
func RateLimit(limiter ratelimiter.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "Too Many Requests"})
			return
		}
		c.Next()
	}
}

// CircuitBreak applies the circuit breaker pattern to the remaining handler chain.
// HTTP status codes >= 500 count as failures.
func CircuitBreak(breaker circuitbreaker.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, err := breaker.Execute(func() (interface{}, error) {
			c.Next()
			if status := c.Writer.Status(); status >= http.StatusInternalServerError {
				return nil, fmt.Errorf("server error: status code %d", status)
			}
			return nil, nil
		})
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"detail": "Service Unavailable: Circuit Breaker is open"})
		}
		// Other errors were already written by the handler chain.
	}
}

// Trace assigns every request a trace id, reusing the client's X-Request-ID when present.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)
		c.Next()
	}
}

// TraceID returns the trace id set by Trace, or an empty string.
func TraceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}

// RequestLogger logs one structured line per request after it completes.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		info := models.RequestInfo{
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			RemoteAddr: c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Status:     c.Writer.Status(),
			LatencyMS:  time.Since(start).Milliseconds(),
		}
		entry := log.WithTrace(TraceID(c)).WithRequest(info)
		if info.Status >= http.StatusInternalServerError {
			entry.Error("request failed")
			return
		}
		entry.Info("request completed")
	}
}
