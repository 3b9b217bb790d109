package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Server wraps http.Server with an address default and graceful shutdown.
type Server struct {
	httpServer *http.Server
}

// ServerOption defines a function for configuring a Server.
type ServerOption func(*Server)

// WithAddress sets the address for the server to listen on.
func WithAddress(addr string) ServerOption {
	return func(s *Server) {
		s.httpServer.Addr = addr
	}
}

// WithReadHeaderTimeout bounds how long a client may take to send request headers.
func WithReadHeaderTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		s.httpServer.ReadHeaderTimeout = d
	}
}

// NewServer creates a Server serving handler (typically a *gin.Engine).
func NewServer(handler http.Handler, opts ...ServerOption) *Server {
	srv := &Server{
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(srv)
	}
	if srv.httpServer.Addr == "" {
		srv.httpServer.Addr = ":8080"
	}
	return srv
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe starts the HTTP server. A graceful shutdown is not reported as an error.
func (s *Server) ListenAndServe() error {
	if s.httpServer.Addr == "" {
		return fmt.Errorf("server address is not set")
	}
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
