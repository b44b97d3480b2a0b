package telemetry

import (
	"net/http"

	"benchkit/internal/harness"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the benchmark surfaces.
// Each Metrics owns its registry so tests can create them freely.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal         prometheus.Counter
	RunSeconds        prometheus.Histogram
	BenchmarkSeconds  *prometheus.HistogramVec
	BenchmarkOutcomes *prometheus.CounterVec
}

// NewMetrics creates and registers all harness metrics.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.RunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "benchkit_runs_total",
		Help: "Total number of completed benchmark runs",
	})

	m.RunSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "benchkit_run_seconds",
		Help:    "Summed benchmark time per run in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	})

	m.BenchmarkSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "benchkit_benchmark_seconds",
		Help:    "Elapsed time per benchmark in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"benchmark"})

	m.BenchmarkOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "benchkit_benchmark_outcomes_total",
		Help: "Benchmark outcomes by kind",
	}, []string{"benchmark", "outcome"})

	m.registry.MustRegister(
		m.RunsTotal,
		m.RunSeconds,
		m.BenchmarkSeconds,
		m.BenchmarkOutcomes,
	)
	return m
}

// ObserveRun records one completed run.
func (m *Metrics) ObserveRun(report *harness.Report) {
	m.RunsTotal.Inc()
	m.RunSeconds.Observe(report.Totals.TotalTimeSeconds)

	for _, e := range report.Benchmarks {
		m.BenchmarkSeconds.WithLabelValues(e.Name).Observe(e.Outcome.Seconds)
		m.BenchmarkOutcomes.WithLabelValues(e.Name, outcomeKind(e.Outcome)).Inc()
	}
}

func outcomeKind(o harness.Outcome) string {
	switch {
	case o.Skipped:
		return "skipped"
	case o.Error != "":
		return "failed"
	default:
		return "success"
	}
}

// Handler returns the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
