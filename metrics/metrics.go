// Package metrics exposes Prometheus metrics for sign-up submissions and lookups.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "maci_signup"

// Submission outcomes other than an error kind.
const (
	OutcomeSuccess = "success"
)

// SignUpMetrics tracks sign-up submissions and lookups.
// A nil *SignUpMetrics is valid and records nothing.
type SignUpMetrics struct {
	SubmissionsTotal    *prometheus.CounterVec
	LookupsTotal        *prometheus.CounterVec
	ConfirmationSeconds prometheus.Histogram
}

// NewSignUpMetrics creates the sign-up metrics and registers them with reg.
func NewSignUpMetrics(reg prometheus.Registerer) *SignUpMetrics {
	factory := promauto.With(reg)
	return &SignUpMetrics{
		SubmissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Total number of sign-up submissions by outcome",
		}, []string{"outcome"}),
		LookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Total number of sign-up lookups by result",
		}, []string{"registered"}),
		ConfirmationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "confirmation_seconds",
			Help:      "Time from dispatching a sign-up transaction to receiving its receipt",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
	}
}

// IncrementSubmissions counts a finished submission.
func (m *SignUpMetrics) IncrementSubmissions(outcome string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(outcome).Inc()
}

// IncrementLookups counts a finished lookup.
func (m *SignUpMetrics) IncrementLookups(registered bool) {
	if m == nil {
		return
	}
	m.LookupsTotal.WithLabelValues(strconv.FormatBool(registered)).Inc()
}

// ObserveConfirmation records the time elapsed since dispatch.
func (m *SignUpMetrics) ObserveConfirmation(dispatched time.Time) {
	if m == nil {
		return
	}
	m.ConfirmationSeconds.Observe(time.Since(dispatched).Seconds())
}
