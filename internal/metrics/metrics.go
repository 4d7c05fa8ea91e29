// Package metrics exposes Prometheus metrics for the index and its
// refresher. Each Metrics owns a private registry so tests and multiple
// engines in one process never collide.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// Refresh metrics
	Rebuilds        *prometheus.CounterVec
	RebuildDuration prometheus.Histogram
	DroppedRequests prometheus.Counter
	AppsIndexed     prometheus.Gauge
	SourceFailures  *prometheus.CounterVec

	// Query metrics
	Searches prometheus.Counter
	Launches *prometheus.CounterVec

	// Persistence metrics
	SaveFailures prometheus.Counter
}

// New creates a new metrics collector
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Rebuilds: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appdex_rebuilds_total",
				Help: "Inventory rebuilds by trigger and result",
			},
			[]string{"trigger", "result"},
		),
		RebuildDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "appdex_rebuild_duration_seconds",
				Help:    "Time spent scanning and merging during a rebuild",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
		),
		DroppedRequests: f.NewCounter(
			prometheus.CounterOpts{
				Name: "appdex_refresh_requests_dropped_total",
				Help: "Refresh requests dropped because a rebuild was running",
			},
		),
		AppsIndexed: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "appdex_apps_indexed",
				Help: "Number of applications in the inventory",
			},
		),
		SourceFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appdex_source_failures_total",
				Help: "Scans in which a source reported unavailable roots",
			},
			[]string{"source"},
		),
		Searches: f.NewCounter(
			prometheus.CounterOpts{
				Name: "appdex_searches_total",
				Help: "Search queries served",
			},
		),
		Launches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appdex_launches_total",
				Help: "Application launches by result",
			},
			[]string{"result"},
		),
		SaveFailures: f.NewCounter(
			prometheus.CounterOpts{
				Name: "appdex_cache_save_failures_total",
				Help: "Failed writes of the inventory cache",
			},
		),
	}
}

// ObserveRebuild records a finished rebuild.
func (m *Metrics) ObserveRebuild(trigger string, d time.Duration, err error, apps int) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Rebuilds.WithLabelValues(trigger, result).Inc()
	m.RebuildDuration.Observe(d.Seconds())
	m.AppsIndexed.Set(float64(apps))
}

// ObserveLaunch records a launch attempt.
func (m *Metrics) ObserveLaunch(err error) {
	if err != nil {
		m.Launches.WithLabelValues("error").Inc()
		return
	}
	m.Launches.WithLabelValues("ok").Inc()
}

// Registry returns the registry holding these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
