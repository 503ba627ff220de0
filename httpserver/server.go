package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ruteri/maci-signup/api"
	"github.com/ruteri/maci-signup/api/enrollmenthandler"
	"github.com/ruteri/maci-signup/metrics"
	"go.uber.org/atomic"
)

// Server runs the sign-up relayer API next to the health endpoints and,
// optionally, the metrics server.
type Server struct {
	cfg     *api.HTTPServerConfig
	isReady atomic.Bool
	log     *slog.Logger

	srv        *http.Server
	metricsSrv *metrics.MetricsServer
	handler    *enrollmenthandler.Handler
}

// New creates the server. metricsSrv may be nil, in which case no metrics
// server is started even if cfg.MetricsAddr is set.
func New(cfg *api.HTTPServerConfig, handler *enrollmenthandler.Handler, metricsSrv *metrics.MetricsServer) (srv *Server, err error) {
	if cfg.Log == nil {
		return nil, errors.New("logger is required")
	}

	srv = &Server{
		cfg:        cfg,
		log:        cfg.Log,
		srv:        nil,
		metricsSrv: metricsSrv,
		handler:    handler,
	}
	srv.isReady.Store(true)

	srv.srv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.getRouter(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return srv, nil
}

func (srv *Server) getRouter() http.Handler {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(srv.httpLogger)
		srv.handler.RegisterRoutes(r)

		r.Get("/livez", srv.handleLivenessCheck)
		r.Get("/readyz", srv.handleReadinessCheck)
		r.Get("/drain", srv.handleDrain)
		r.Get("/undrain", srv.handleUndrain)
	})

	if srv.cfg.EnablePprof {
		srv.log.Info("pprof API enabled")
		mux.Mount("/debug", middleware.Profiler())
	}
	return mux
}

// Handler returns the router serving the API and health endpoints.
func (srv *Server) Handler() http.Handler {
	return srv.srv.Handler
}

// IsReady reports whether the server currently reports itself as ready.
func (srv *Server) IsReady() bool {
	return srv.isReady.Load()
}

func (srv *Server) httpLogger(next http.Handler) http.Handler {
	return httplogger.LoggingMiddlewareSlog(srv.log, next)
}

func (srv *Server) handleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, "alive")
}

func (srv *Server) handleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if !srv.isReady.Load() {
		writeStatus(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	writeStatus(w, http.StatusOK, "ready")
}

func (srv *Server) handleDrain(w http.ResponseWriter, r *http.Request) {
	if !srv.isReady.Swap(false) {
		writeStatus(w, http.StatusOK, "already draining")
		return
	}
	srv.log.Info("Server marked as not ready")
	writeStatus(w, http.StatusOK, "draining")
}

func (srv *Server) handleUndrain(w http.ResponseWriter, r *http.Request) {
	if srv.isReady.Swap(true) {
		writeStatus(w, http.StatusOK, "already ready")
		return
	}
	srv.log.Info("Server marked as ready")
	writeStatus(w, http.StatusOK, "ready")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"status":"` + status + `"}`))
}

// RunInBackground starts the API server and, if configured, the metrics server.
func (srv *Server) RunInBackground() {
	if srv.metricsEnabled() {
		go srv.serve("metrics", srv.cfg.MetricsAddr, srv.metricsSrv.ListenAndServe)
	}
	go srv.serve("api", srv.cfg.ListenAddr, srv.srv.ListenAndServe)
}

func (srv *Server) serve(name, addr string, listen func() error) {
	log := srv.log.With("server", name, "listenAddress", addr)
	log.Info("Starting HTTP server")
	if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("HTTP server failed", "err", err)
	}
}

// Shutdown withdraws readiness, waits out the drain duration and then
// gracefully stops both servers.
func (srv *Server) Shutdown() {
	if srv.isReady.Swap(false) && srv.cfg.DrainDuration > 0 {
		srv.log.Info("Draining before shutdown", "duration", srv.cfg.DrainDuration)
		time.Sleep(srv.cfg.DrainDuration)
	}

	srv.stop("api", srv.srv.Shutdown)
	if srv.metricsEnabled() {
		srv.stop("metrics", srv.metricsSrv.Shutdown)
	}
}

func (srv *Server) stop(name string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.GracefulShutdownDuration)
	defer cancel()

	log := srv.log.With("server", name)
	if err := shutdown(ctx); err != nil {
		log.Error("Graceful HTTP server shutdown failed", "err", err)
		return
	}
	log.Info("HTTP server gracefully stopped")
}

func (srv *Server) metricsEnabled() bool {
	return srv.metricsSrv != nil && srv.cfg.MetricsAddr != ""
}
