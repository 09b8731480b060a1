package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms of the service.
type Metrics struct {
	DatasetsImported     prometheus.Counter
	ObservationsIngested prometheus.Counter
	ObservationsDropped  prometheus.Counter

	// Live path.
	LiveChecks       *prometheus.CounterVec   // labels: outcome
	ProviderDuration *prometheus.HistogramVec // labels: provider
	MonitorRuns      prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.DatasetsImported,
		m.ObservationsIngested,
		m.ObservationsDropped,
		m.LiveChecks,
		m.ProviderDuration,
		m.MonitorRuns,
	)

	return m
}

// NewUnregisteredMetrics creates Metrics that are not registered anywhere,
// for one-shot processes such as the CLI that never expose /metrics.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seasonal_baseline",
			Name:      "datasets_imported_total",
			Help:      "Total historical datasets imported.",
		}),
		ObservationsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seasonal_baseline",
			Name:      "observations_ingested_total",
			Help:      "Total historical rows accepted by the loader.",
		}),
		ObservationsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seasonal_baseline",
			Name:      "observations_dropped_total",
			Help:      "Total historical rows dropped as malformed.",
		}),
		LiveChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seasonal_baseline",
			Name:      "live_checks_total",
			Help:      "Live normality checks by outcome.",
		}, []string{"outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "seasonal_baseline",
			Name:      "provider_request_duration_seconds",
			Help:      "Live weather provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		MonitorRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seasonal_baseline",
			Name:      "monitor_runs_total",
			Help:      "Total scheduled live checks recorded in the monitor history.",
		}),
	}
}
