package memo

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts cache lookups and upstream calls per cache name.
type Metrics struct {
	lookups      *prometheus.CounterVec
	callFailures *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
}

// NewMetrics registers the cache metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stabletvl",
			Subsystem: "memo",
			Name:      "lookups_total",
			Help:      "Cache lookups by result (hit or miss).",
		}, []string{"cache", "result"}),
		callFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stabletvl",
			Subsystem: "memo",
			Name:      "call_failures_total",
			Help:      "Failed calls of the memoized operation.",
		}, []string{"cache"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stabletvl",
			Subsystem: "memo",
			Name:      "call_duration_seconds",
			Help:      "Duration of calls of the memoized operation.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"cache"}),
	}
	if reg != nil {
		reg.MustRegister(m.lookups, m.callFailures, m.callDuration)
	}
	return m
}

func (m *Metrics) hit(name string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(name, "hit").Inc()
}

func (m *Metrics) miss(name string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(name, "miss").Inc()
}

func (m *Metrics) observe(name string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.callDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.callFailures.WithLabelValues(name).Inc()
	}
}
