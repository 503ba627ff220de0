package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer serves the process registry on /metrics.
type MetricsServer struct {
	registry *prometheus.Registry
	signUps  *SignUpMetrics
	srv      *http.Server
}

// New creates a metrics server with Go runtime, process and sign-up metrics registered.
func New(listenAddr string) (*MetricsServer, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}

	m := &MetricsServer{
		registry: registry,
		signUps:  NewSignUpMetrics(registry),
	}

	mux := chi.NewRouter()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	m.srv = &http.Server{
		Addr:              listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return m, nil
}

// Registry returns the registry served by the server.
func (m *MetricsServer) Registry() *prometheus.Registry {
	return m.registry
}

// SignUps returns the sign-up metrics registered with the server.
func (m *MetricsServer) SignUps() *SignUpMetrics {
	return m.signUps
}

// Handler returns the HTTP handler serving /metrics.
func (m *MetricsServer) Handler() http.Handler {
	return m.srv.Handler
}

func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
