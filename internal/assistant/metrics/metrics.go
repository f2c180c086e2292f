// Package metrics exposes Prometheus collectors for assistant requests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeAnswered    = "answered"
	OutcomeRateLimited = "rate_limited"
	OutcomeInvalid     = "invalid"
	OutcomeFailed      = "failed"
)

type Metrics struct {
	requests    *prometheus.CounterVec
	rateLimited *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New registers the collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		// Labels: intent, outcome (answered, rate_limited, invalid, failed)
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assistant",
			Name:      "requests_total",
			Help:      "Total assistant requests by intent and outcome",
		}, []string{"intent", "outcome"}),

		// Labels: identity_kind (user, ip, anonymous)
		rateLimited: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assistant",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the sliding-window limiter",
		}, []string{"identity_kind"}),

		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "assistant",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent classifying and answering a request",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 20, 30},
		}, []string{"intent"}),
	}
}

// Request counts one finished request. Nil receivers are no-ops.
func (m *Metrics) Request(intent, outcome string) {
	if m == nil {
		return
	}
	if intent == "" {
		intent = "unknown"
	}
	m.requests.WithLabelValues(intent, outcome).Inc()
}

func (m *Metrics) RateLimited(identityKind string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(identityKind).Inc()
}

func (m *Metrics) ObserveDispatch(intent string, took time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(intent).Observe(took.Seconds())
}
