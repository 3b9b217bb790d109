package http

import (
	"fmt"
	"net/http"
	"time"

	"Jaffer/backend/go/internal/config"
	"Jaffer/backend/go/pkg/circuitbreaker"
)

// Client wraps http.Client and optionally guards every request with a circuit breaker.
type Client struct {
	httpClient *http.Client
	breaker    circuitbreaker.CircuitBreaker
}

// NewClient creates a Client. A disabled breaker config yields a plain client.
func NewClient(cfg config.CircuitBreakerConfig, timeout time.Duration, opts ...circuitbreaker.Option) (*Client, error) {
	c := &Client{httpClient: &http.Client{Timeout: timeout}}
	if !cfg.Enabled {
		return c, nil
	}
	breaker, err := NewCircuitBreaker(cfg, opts...)
	if err != nil {
		return nil, err
	}
	c.breaker = breaker
	return c, nil
}

// NewCircuitBreaker initializes a circuit breaker based on the configuration.
func NewCircuitBreaker(cfg config.CircuitBreakerConfig, opts ...circuitbreaker.Option) (circuitbreaker.CircuitBreaker, error) {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid circuit breaker timeout duration: %w", err)
	}
	return circuitbreaker.New(cfg.FailureThreshold, cfg.SuccessThreshold, timeout, opts...), nil
}

// Available reports whether requests are currently let through.
func (c *Client) Available() bool {
	return c.breaker == nil || c.breaker.Allow()
}

// Do executes an HTTP request with circuit breaker protection.
// Status codes >= 500 count as failures; the response body is closed in that case.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.httpClient.Do(req)
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			return nil, fmt.Errorf("server error: received status code %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*http.Response), nil
}
