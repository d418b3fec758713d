package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "parlaywatch"

// Metrics owns its registry so several instances can coexist in tests.
//
//   - parlaywatch_upstream_fetch_total{outcome}
//   - parlaywatch_upstream_fetch_duration_seconds{outcome}
//   - parlaywatch_malformed_records_total{unit}
//   - parlaywatch_tree_build_duration_seconds{outcome}
//   - parlaywatch_dashboard_polls_total{view,outcome}
type Metrics struct {
	registry *prometheus.Registry

	upstreamFetches       *prometheus.CounterVec
	upstreamFetchDuration *prometheus.HistogramVec
	malformedRecords      *prometheus.CounterVec
	treeBuildDuration     *prometheus.HistogramVec
	dashboardPolls        *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		upstreamFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_fetch_total",
			Help:      "Upstream scoreboard fetches by outcome.",
		}, []string{"outcome"}),
		upstreamFetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_fetch_duration_seconds",
			Help:      "Latency of upstream scoreboard fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		malformedRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "malformed_records_total",
			Help:      "Feed records skipped or defaulted, by unit.",
		}, []string{"unit"}),
		treeBuildDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "tree_build_duration_seconds",
			Help:      "Time to fetch, normalize and classify one sports tree.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		dashboardPolls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "dashboard_polls_total",
			Help:      "Dashboard poll completions by view and outcome.",
		}, []string{"view", "outcome"}),
	}
}

func (m *Metrics) ObserveFetch(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamFetches.WithLabelValues(outcome).Inc()
	m.upstreamFetchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordFetchRejected counts a fetch the circuit breaker refused. It has no
// latency sample.
func (m *Metrics) RecordFetchRejected() {
	if m == nil {
		return
	}
	m.upstreamFetches.WithLabelValues("rejected").Inc()
}

func (m *Metrics) RecordMalformed(unit string) {
	if m == nil {
		return
	}
	m.malformedRecords.WithLabelValues(unit).Inc()
}

func (m *Metrics) ObserveBuild(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.treeBuildDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordPoll counts one applied, stale or failed poll of a dashboard view.
func (m *Metrics) RecordPoll(view, outcome string) {
	if m == nil {
		return
	}
	m.dashboardPolls.WithLabelValues(view, outcome).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
