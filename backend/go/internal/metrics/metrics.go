// Package metrics provides Prometheus metrics for the chat service
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the chat service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Pipeline metrics
	StageDuration        *prometheus.HistogramVec
	LocalEngineFailures  *prometheus.CounterVec
	WebEscalationsTotal  *prometheus.CounterVec
	InferenceFailures    prometheus.Counter
	StorageFailures      *prometheus.CounterVec
	EventPublishFailures prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates all metrics and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{gatherer: reg}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jaffer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jaffer_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.StageDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jaffer_chat_stage_duration_seconds",
			Help:    "Duration of each chat pipeline stage in seconds",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	m.LocalEngineFailures = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jaffer_local_engine_failures_total",
			Help: "Local fact engine invocations that produced no output",
		},
		[]string{"reason"},
	)

	m.WebEscalationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jaffer_web_escalations_total",
			Help: "Web search fallbacks by outcome",
		},
		[]string{"outcome"},
	)

	m.InferenceFailures = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "jaffer_inference_failures_total",
			Help: "Model invocations that failed or returned an empty reply",
		},
	)

	m.StorageFailures = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jaffer_storage_failures_total",
			Help: "Failed store operations",
		},
		[]string{"operation"},
	)

	m.EventPublishFailures = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "jaffer_event_publish_failures_total",
			Help: "Exchange events that could not be published",
		},
	)

	return m
}

// ObserveStage records how long a pipeline stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// LocalEngineFailed counts a local engine failure by reason.
func (m *Metrics) LocalEngineFailed(reason string) {
	if m == nil {
		return
	}
	m.LocalEngineFailures.WithLabelValues(reason).Inc()
}

// WebEscalated counts a web search fallback by outcome ("hit", "empty", "error").
func (m *Metrics) WebEscalated(outcome string) {
	if m == nil {
		return
	}
	m.WebEscalationsTotal.WithLabelValues(outcome).Inc()
}

// InferenceFailed counts a failed model invocation.
func (m *Metrics) InferenceFailed() {
	if m == nil {
		return
	}
	m.InferenceFailures.Inc()
}

// StorageFailed counts a failed store operation.
func (m *Metrics) StorageFailed(operation string) {
	if m == nil {
		return
	}
	m.StorageFailures.WithLabelValues(operation).Inc()
}

// PublishFailed counts an exchange event that was dropped.
func (m *Metrics) PublishFailed() {
	if m == nil {
		return
	}
	m.EventPublishFailures.Inc()
}

// Middleware records request counts and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
