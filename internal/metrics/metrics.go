// Package metrics defines the service's Prometheus instruments.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "audioreader"

// Metrics holds the registered instruments. A nil *Metrics is a no-op.
type Metrics struct {
	requests          *prometheus.CounterVec
	feedFetch         prometheus.Histogram
	feedFailures      *prometheus.CounterVec
	durationFallbacks prometheus.Counter
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Schedule queries by route and outcome.",
		}, []string{"route", "outcome"}),
		feedFetch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_fetch_seconds",
			Help:      "Latency of schedule feed fetches.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		feedFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fetch_failures_total",
			Help:      "Failed schedule feed fetches by reason.",
		}, []string{"reason"}),
		durationFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duration_fallbacks_total",
			Help:      "Program lengths that could not be parsed and defaulted to one hour.",
		}),
	}

	reg.MustRegister(m.requests, m.feedFetch, m.feedFailures, m.durationFallbacks)
	return m
}

// Request counts one handled query.
func (m *Metrics) Request(route, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, outcome).Inc()
}

// ObserveFetch records the latency of one feed fetch.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.feedFetch.Observe(d.Seconds())
}

// FetchFailed counts a failed feed fetch.
func (m *Metrics) FetchFailed(reason string) {
	if m == nil {
		return
	}
	m.feedFailures.WithLabelValues(reason).Inc()
}

// DurationFallback counts one defaulted program length.
func (m *Metrics) DurationFallback() {
	if m == nil {
		return
	}
	m.durationFallbacks.Inc()
}

// Handler exposes the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
