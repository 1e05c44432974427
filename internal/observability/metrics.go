package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "drill_recommender"

// Metrics holds the Prometheus collectors for the pipeline, the engine, and
// the HTTP API.
type Metrics struct {
	MessagesConsumed    prometheus.Counter
	MessagesProduced    prometheus.Counter
	TransformErrors     prometheus.Counter
	SupersededSnapshots prometheus.Counter
	PipelineRunning     prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Engine output metrics.
	MergedDrills     prometheus.Histogram
	HighRiskStudents prometheus.Histogram
	CatalogLocations prometheus.Gauge
	CatalogEntries   prometheus.Gauge

	// API metrics.
	DrillsScheduled    *prometheus.CounterVec   // labels: hazard
	APIRequests        *prometheus.CounterVec   // labels: route, status
	APIRequestDuration *prometheus.HistogramVec // labels: route
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}
	return &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rosters_consumed_total",
			Help:      help("Total roster snapshots read from the source topic."),
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_produced_total",
			Help:      help("Total recommendations written to the sink topic."),
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      help("Total roster snapshots that could not be processed."),
		}),
		SupersededSnapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "superseded_snapshots_total",
			Help:      help("Roster snapshots dropped because a later snapshot of the class arrived in the same batch."),
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      help("1 when the pipeline is active, 0 when shut down."),
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      help("Number of roster messages per batch extracted from Kafka."),
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      help("Duration of a complete batch extract-transform-load cycle."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		MergedDrills: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "merged_drills_per_roster",
			Help:      help("Merged drill recommendations produced per roster."),
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 12, 20},
		}),
		HighRiskStudents: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "high_risk_students_per_roster",
			Help:      help("Students at a high or critical risk location per roster."),
			Buckets:   []float64{0, 1, 5, 10, 20, 40, 80},
		}),
		CatalogLocations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_locations",
			Help:      help("Distinct locations in the loaded hazard catalog."),
		}),
		CatalogEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_entries",
			Help:      help("Location, hazard and level entries in the loaded hazard catalog."),
		}),
		DrillsScheduled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drills_scheduled_total",
			Help:      help("Drills booked through the API by hazard."),
		}, []string{"hazard"}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      help("API requests by route and status code."),
		}, []string{"route", "status"}),
		APIRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      help("API request duration in seconds."),
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"route"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.SupersededSnapshots,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.MergedDrills,
		m.HighRiskStudents,
		m.CatalogLocations,
		m.CatalogEntries,
		m.DrillsScheduled,
		m.APIRequests,
		m.APIRequestDuration,
	}
}
