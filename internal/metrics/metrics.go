// Package metrics provides Prometheus metrics for legends imports.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the import counters. Each instance owns its registry so
// several imports (and tests) can coexist in one process.
type Metrics struct {
	Registry *prometheus.Registry

	RecordsImported *prometheus.CounterVec
	LinksParsed     *prometheus.CounterVec
	FieldsSkipped   *prometheus.CounterVec
	EventBacklinks  *prometheus.CounterVec
	EmptyCategories prometheus.Counter
	SanitizeRuns    prometheus.Counter
	BytesReplaced   prometheus.Counter
	ImportDuration  prometheus.Histogram
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{Registry: reg}

	m.RecordsImported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legends_records_imported_total",
			Help: "Records installed in the store, by category",
		},
		[]string{"category"},
	)
	m.LinksParsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legends_links_parsed_total",
			Help: "Relationship links parsed on historical figures, by kind",
		},
		[]string{"kind"},
	)
	m.FieldsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legends_fields_skipped_total",
			Help: "Fields dropped by the record builder, by reason",
		},
		[]string{"reason"},
	)
	m.EventBacklinks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legends_event_backlinks_total",
			Help: "Event identifiers appended to referenced records, by category",
		},
		[]string{"category"},
	)
	m.EmptyCategories = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "legends_empty_categories_total",
			Help: "Category groupings closed without any records",
		},
	)
	m.SanitizeRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "legends_sanitize_runs_total",
			Help: "Times the repair pass ran after a failed parse",
		},
	)
	m.BytesReplaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "legends_sanitize_bytes_replaced_total",
			Help: "Bytes replaced with the placeholder by the repair pass",
		},
	)
	m.ImportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "legends_import_duration_seconds",
			Help:    "Wall time of a complete import",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
	)

	reg.MustRegister(
		m.RecordsImported,
		m.LinksParsed,
		m.FieldsSkipped,
		m.EventBacklinks,
		m.EmptyCategories,
		m.SanitizeRuns,
		m.BytesReplaced,
		m.ImportDuration,
	)
	return m
}

// WriteTextfile writes all metrics in the text exposition format, for the
// node exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
