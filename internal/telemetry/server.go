package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LineMetrics/fluxer/internal/infrastructure/config"
	"github.com/LineMetrics/fluxer/internal/infrastructure/logging"
)

// shutdownTimeout is the maximum time to wait for an in-flight scrape
// to complete during Close().
const shutdownTimeout = 5 * time.Second

// readHeaderTimeout bounds how long the server waits for scrape request
// headers. Scrape requests are tiny, so this is generous.
const readHeaderTimeout = 10 * time.Second

// Server exposes the relay's Prometheus metrics over HTTP.
//
// It serves GET /metrics on the configured address. The server is
// created with New() and started with Start().
type Server struct {
	cfg    config.TelemetryConfig
	logger *logging.Logger
	server *http.Server
}

// New creates a metrics server for the given config.
//
// The server is not started until Start() is called. A nil logger
// falls back to the package default.
//
// Parameters:
//   - cfg: Telemetry settings (listen address)
//   - logger: Structured logger, may be nil
//
// Returns:
//   - *Server: Configured server ready to start
func New(cfg config.TelemetryConfig, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	return &Server{cfg: cfg, logger: logger}
}

// Handler returns the HTTP handler serving the metrics endpoint.
//
// Exposed separately so callers embedding the relay can mount the
// endpoint on their own mux instead of running a dedicated listener.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Start begins serving metrics in a background goroutine.
//
// Listen errors other than graceful shutdown are logged, not
// returned. A metrics endpoint failure must not take the relay down.
func (s *Server) Start() {
	s.server = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		s.logger.Info("metrics server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server error", "error", err)
		}
	}()
}

// Close gracefully shuts down the metrics server.
//
// Safe to call on a server that was never started.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s == nil || s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down metrics server: %w", err)
	}
	return nil
}
