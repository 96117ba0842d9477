// Package observability holds the Prometheus metrics and the HTTP endpoint
// that exposes them.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Load outcomes used as the "outcome" label.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// Metrics holds the Prometheus counters, histograms, and gauges for data loads.
type Metrics struct {
	LoadsStarted     prometheus.Counter
	LoadsCompleted   *prometheus.CounterVec // labels: outcome={success,empty,error}
	LoadErrors       *prometheus.CounterVec // labels: kind={transport,rate_limited,...}
	StaleCompletions prometheus.Counter
	RecordsDropped   prometheus.Counter
	RecordsPublished prometheus.Gauge

	FetchDuration *prometheus.HistogramVec // labels: feed
}

// NewMetrics creates and registers all load metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.LoadsStarted,
		m.LoadsCompleted,
		m.LoadErrors,
		m.StaleCompletions,
		m.RecordsDropped,
		m.RecordsPublished,
		m.FetchDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		LoadsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake",
			Name:      "loads_started_total",
			Help:      "Total data loads started.",
		}),
		LoadsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake",
			Name:      "loads_completed_total",
			Help:      "Data loads published, by outcome.",
		}, []string{"outcome"}),
		LoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake",
			Name:      "load_errors_total",
			Help:      "Failed data loads by error kind.",
		}, []string{"kind"}),
		StaleCompletions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake",
			Name:      "stale_completions_total",
			Help:      "Completions discarded because a newer load had started.",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake",
			Name:      "records_dropped_total",
			Help:      "Malformed or duplicate features skipped during normalization.",
		}),
		RecordsPublished: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake",
			Name:      "records_published",
			Help:      "Number of earthquakes in the current display set.",
		}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quake",
			Name:      "fetch_duration_seconds",
			Help:      "USGS request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"feed"}),
	}
}
