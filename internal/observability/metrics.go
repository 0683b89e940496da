package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "commodity_dashboard"

// Metrics holds the Prometheus collectors for dataset loading and the view API.
type Metrics struct {
	DatasetLoads     *prometheus.CounterVec // labels: source, outcome={success,error,rejected}
	DatasetRows      prometheus.Gauge
	LoadDuration     *prometheus.HistogramVec // labels: source
	ViewRequests     *prometheus.CounterVec   // labels: result={rows,empty}
	ReportsGenerated *prometheus.CounterVec   // labels: format
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset loads by source and outcome.",
		}, []string{"source", "outcome"}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_dataset_rows",
			Help:      "Number of observations in the active dataset.",
		}),
		LoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Time spent loading a dataset from its source.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		ViewRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_requests_total",
			Help:      "Filtered view computations by whether they returned rows.",
		}, []string{"result"}),
		ReportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_generated_total",
			Help:      "Exported notes and workbooks by format.",
		}, []string{"format"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.DatasetLoads,
			m.DatasetRows,
			m.LoadDuration,
			m.ViewRequests,
			m.ReportsGenerated,
		)
	}
	return m
}

// NewMetricsForTesting creates Metrics backed by a private registry.
func NewMetricsForTesting() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
