package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the dataset
// pipeline.
type Metrics struct {
	RecordsRead    *prometheus.CounterVec // labels: source={si,uom}
	RecordsWritten *prometheus.CounterVec // labels: dataset
	Violations     *prometheus.CounterVec // labels: kind

	BuildDuration prometheus.Histogram

	// Ontology annotation metrics.
	AnnotationMatches *prometheus.CounterVec // labels: ontology={uo,ucum,om}

	// Release publishing metrics.
	RecordsPublished prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uom_etl",
			Name:      "records_read_total",
			Help:      "Raw records read from the source listings.",
		}, []string{"source"}),
		RecordsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uom_etl",
			Name:      "records_written_total",
			Help:      "Records written per dataset file.",
		}, []string{"dataset"}),
		Violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uom_etl",
			Name:      "violations_total",
			Help:      "Validation violations by kind.",
		}, []string{"kind"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "uom_etl",
			Name:      "build_duration_seconds",
			Help:      "Duration of a complete read-normalize-merge-write run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		AnnotationMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uom_etl",
			Name:      "annotation_matches_total",
			Help:      "Ontology cross-reference matches by ontology.",
		}, []string{"ontology"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uom_etl",
			Name:      "records_published_total",
			Help:      "Records published to the release topic.",
		}),
	}

	prometheus.MustRegister(
		m.RecordsRead,
		m.RecordsWritten,
		m.Violations,
		m.BuildDuration,
		m.AnnotationMatches,
		m.RecordsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsRead:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "uom_etl", Name: "records_read_total"}, []string{"source"}),
		RecordsWritten:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "uom_etl", Name: "records_written_total"}, []string{"dataset"}),
		Violations:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "uom_etl", Name: "violations_total"}, []string{"kind"}),
		BuildDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "uom_etl", Name: "build_duration_seconds"}),
		AnnotationMatches: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "uom_etl", Name: "annotation_matches_total"}, []string{"ontology"}),
		RecordsPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "uom_etl", Name: "records_published_total"}),
	}
}
