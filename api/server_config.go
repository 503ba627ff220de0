package api

import (
	"log/slog"
	"time"
)

// HTTPServerConfig configures the relayer HTTP server.
type HTTPServerConfig struct {
	ListenAddr  string
	// MetricsAddr is where /metrics is served, empty to disable.
	MetricsAddr string
	EnablePprof bool
	Log         *slog.Logger

	// Readiness is withdrawn for DrainDuration before the listeners are closed.
	DrainDuration            time.Duration
	GracefulShutdownDuration time.Duration

	ReadTimeout  time.Duration
	// A sign-up response is written only after the transaction is mined,
	// so WriteTimeout bounds the confirmation wait seen by clients.
	WriteTimeout time.Duration
}

// DefaultHTTPServerConfig returns a config listening on listenAddr with the
// relayer's default timeouts and no metrics server.
func DefaultHTTPServerConfig(listenAddr string, log *slog.Logger) *HTTPServerConfig {
	return &HTTPServerConfig{
		ListenAddr:               listenAddr,
		Log:                      log,
		DrainDuration:            45 * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              10 * time.Second,
		WriteTimeout:             2 * time.Minute,
	}
}
