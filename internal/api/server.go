// Package api exposes the orchestration facade as a JSON HTTP API under
// /api/v1/employee, alongside /health and /metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// BasePath is where the employee routes are mounted.
const BasePath = "/api/v1/employee"

// Config holds HTTP server settings.
type Config struct {
	Port         int
	RateLimit    float64 // requests per second, 0 disables limiting
	RateBurst    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the employee API.
type Server struct {
	server *http.Server
	log    *slog.Logger
}

// NewRouter builds the handler tree. health may be nil.
func NewRouter(svc EmployeeService, health http.Handler, cfg Config, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	r := chi.NewRouter()
	r.Use(
		metricsMiddleware,
		requestIDMiddleware,
		panicRecoveryMiddleware,
		rateLimitMiddleware(limiter),
		loggingMiddleware(logger.With("component", "api")),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, ErrCodeInvalidRequest, "route not found", false, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, ErrCodeInvalidRequest, "method not allowed", false, nil)
	})

	h := &employeeHandler{svc: svc}
	r.Route(BasePath, h.Register)

	if health != nil {
		r.Method(http.MethodGet, "/health", health)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// NewServer creates a server for the given router.
func NewServer(handler http.Handler, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		log: logger.With("component", "api"),
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
