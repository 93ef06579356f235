// Package server exposes the aggregator's query surface over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/selivandex/market-news/internal/aggregator"
)

// Server wraps the HTTP API over one aggregator instance
type Server struct {
	httpServer *http.Server
	aggregator *aggregator.Aggregator
	startTime  time.Time
}

// New creates the API server bound to addr
func New(addr string, agg *aggregator.Aggregator) *Server {
	s := &Server{
		aggregator: agg,
		startTime:  time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/news", s.handleNews)
		r.Get("/news/breaking", s.handleBreakingNews)
		r.Get("/sentiment/market", s.handleMarketSentiment)
		r.Get("/sentiment/crypto", s.handleCryptoSentiment)
		r.Get("/cache/stats", s.handleCacheStats)
		r.Delete("/cache", s.handleClearCache)
		r.Get("/throttle", s.handleThrottleStatus)
	})

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Start serves until the listener fails or Shutdown is called
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the router, used by tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
