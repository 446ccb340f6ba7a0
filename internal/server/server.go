// Package server hosts the HTTP API and the embedded report UI.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackzampolin/pdfa11y/internal/api"
	"github.com/jackzampolin/pdfa11y/internal/audit"
	"github.com/jackzampolin/pdfa11y/internal/config"
	"github.com/jackzampolin/pdfa11y/internal/home"
	"github.com/jackzampolin/pdfa11y/internal/metrics"
	"github.com/jackzampolin/pdfa11y/internal/rules"
	"github.com/jackzampolin/pdfa11y/internal/server/endpoints"
	"github.com/jackzampolin/pdfa11y/internal/svcctx"
)

// Server is the pdfa11y HTTP server.
type Server struct {
	httpServer *http.Server
	audit      *audit.Service
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// maxUploadBytes follows server.max_upload_mb across reloads.
	maxUploadBytes atomic.Int64
	limiter        *uploadLimiter

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu       sync.RWMutex
	running  bool
	listener net.Listener
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// Audit runs analyses and remediations. Required.
	Audit *audit.Service
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Home is the data directory; optional.
	Home *home.Dir
	// MetricsQuery answers metrics endpoints; nil disables them.
	MetricsQuery *metrics.Query
	// MaxUploadBytes bounds analyze requests; 0 means no limit.
	MaxUploadBytes int64
	// UploadRateLimit is analyze requests per second; 0 disables limiting.
	UploadRateLimit float64
	UploadBurst     int
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Audit == nil {
		return nil, errors.New("audit service is required")
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		audit:     cfg.Audit,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
		limiter:   newUploadLimiter(cfg.UploadRateLimit, cfg.UploadBurst),
		services: &svcctx.Services{
			Audit:        cfg.Audit,
			Config:       cfg.ConfigManager,
			Logger:       cfg.Logger,
			Home:         cfg.Home,
			MetricsQuery: cfg.MetricsQuery,
		},
	}
	s.maxUploadBytes.Store(cfg.MaxUploadBytes)

	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(s.reload)
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit, s.limiter.middleware)

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           s.withServices(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	return s, nil
}

// reload applies settings that can change without a restart.
func (s *Server) reload(c *config.Config) {
	s.limiter.set(c.Server.UploadRateLimit, c.Server.UploadBurst)
	s.maxUploadBytes.Store(c.MaxUploadBytes())

	table, err := rules.DefaultSeverities().WithOverrides(c.Audit.SeverityOverrides)
	if err != nil {
		s.logger.Error("ignoring severity overrides", "error", err)
	} else {
		s.audit.SetSeverities(table)
	}
	s.logger.Info("configuration reloaded",
		"upload_rate_limit", c.Server.UploadRateLimit,
		"upload_burst", c.Server.UploadBurst,
		"max_upload_mb", c.Server.MaxUploadMB)
}

// Start starts the server.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	s.running = true
	s.mu.Unlock()

	if err := s.audit.Ready(); err != nil {
		s.logger.Warn("page rendering unavailable; /ready will report degraded", "error", err)
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.listener = nil
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address. Once started it is the bound
// address, which differs from the configured one when port 0 was given.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Handler returns the root handler, for serving without Start.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Audit returns the audit service.
func (s *Server) Audit() *audit.Service {
	return s.audit
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		services := *s.services
		services.MaxUploadBytes = s.maxUploadBytes.Load()
		ctx := svcctx.WithServices(r.Context(), &services)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable if the audit service isn't ready.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svcctx.AuditFrom(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
