package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRequestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Request("faq", OutcomeAnswered)
	m.Request("faq", OutcomeAnswered)
	m.Request("", OutcomeInvalid)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("faq", OutcomeAnswered)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("unknown", OutcomeInvalid)))
}

func TestRateLimitedAndDuration(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RateLimited("ip")
	m.ObserveDispatch("general_chat", 150*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited.WithLabelValues("ip")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Request("faq", OutcomeAnswered)
		m.RateLimited("user")
		m.ObserveDispatch("faq", time.Second)
	})
}
