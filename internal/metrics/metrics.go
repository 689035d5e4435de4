// Package metrics exposes Prometheus metrics for chat queries.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeEmpty     = "empty_result"
	OutcomeDataError = "data_error"
	OutcomeInternal  = "internal_error"
)

// Metrics holds the collectors on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	QueryTotal    *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	ResultCount   prometheus.Histogram
	Resets        prometheus.Counter
	Sessions      prometheus.Gauge
}

// New creates and registers the collectors, plus Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		QueryTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lapbot_query_total",
				Help: "Total number of chat queries processed",
			},
			[]string{"mode", "outcome"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lapbot_query_duration_seconds",
				Help:    "Query processing duration in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"mode"},
		),
		ResultCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lapbot_query_results_count",
				Help:    "Number of listings returned per query",
				Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
			},
		),
		Resets: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lapbot_transcript_resets_total",
				Help: "Total number of transcript resets",
			},
		),
		Sessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lapbot_sessions",
				Help: "Number of chat sessions held in memory",
			},
		),
	}
	m.registry.MustRegister(
		m.QueryTotal,
		m.QueryDuration,
		m.ResultCount,
		m.Resets,
		m.Sessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveQuery records one finished query.
func (m *Metrics) ObserveQuery(mode, outcome string, results int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.QueryTotal.WithLabelValues(mode, outcome).Inc()
	m.QueryDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if outcome == OutcomeOK {
		m.ResultCount.Observe(float64(results))
	}
}

// ObserveReset records a transcript reset.
func (m *Metrics) ObserveReset() {
	if m == nil {
		return
	}
	m.Resets.Inc()
}

// SetSessions records the number of live sessions.
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.Sessions.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
