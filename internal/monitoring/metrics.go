// internal/monitoring/metrics.go

// Package monitoring exposes crawl metrics over Prometheus and a small
// health endpoint.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "moviescrapexter"

// Metrics holds the Prometheus collectors for one crawl run. Every instance
// carries its own registry so parallel runs and tests never collide on
// registration.
type Metrics struct {
	registry *prometheus.Registry

	// Classification metrics
	pagesClassified *prometheus.CounterVec

	// Extraction metrics
	recordsExtracted prometheus.Counter
	fieldsExtracted  *prometheus.CounterVec

	// Fetch metrics
	fetchDuration *prometheus.HistogramVec
	fetchErrors   prometheus.Counter

	// Link metrics
	linksHarvested prometheus.Counter
	linksRejected  *prometheus.CounterVec

	// Output metrics
	recordsWritten prometheus.Counter
	outputErrors   prometheus.Counter
}

// NewMetrics creates the collector set on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		pagesClassified: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_classified_total",
			Help:      "Pages processed, partitioned by classification outcome",
		}, []string{"type"}),
		recordsExtracted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_extracted_total",
			Help:      "Movie records produced by the extraction cascade",
		}),
		fieldsExtracted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fields_extracted_total",
			Help:      "Extracted field values, partitioned by field name",
		}, []string{"field"}),
		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Page fetch latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"fetcher"}),
		fetchErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Failed page fetches",
		}),
		linksHarvested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_harvested_total",
			Help:      "Links collected from catalogue pages",
		}),
		linksRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_rejected_total",
			Help:      "Links rejected by the validity predicate, by reason",
		}, []string{"reason"}),
		recordsWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_written_total",
			Help:      "Records delivered to output sinks",
		}),
		outputErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "output_errors_total",
			Help:      "Output write failures",
		}),
	}
}

// PageClassified records one classification outcome ("catalogue", "detail",
// "unknown").
func (m *Metrics) PageClassified(pageType string) {
	m.pagesClassified.WithLabelValues(pageType).Inc()
}

// RecordExtracted records one produced record and its populated fields.
func (m *Metrics) RecordExtracted(fields map[string]string) {
	m.recordsExtracted.Inc()
	for field := range fields {
		m.fieldsExtracted.WithLabelValues(field).Inc()
	}
}

// FetchObserved records one fetch attempt.
func (m *Metrics) FetchObserved(fetcher string, seconds float64, err error) {
	m.fetchDuration.WithLabelValues(fetcher).Observe(seconds)
	if err != nil {
		m.fetchErrors.Inc()
	}
}

// LinksHarvested records harvested catalogue links.
func (m *Metrics) LinksHarvested(count int) {
	m.linksHarvested.Add(float64(count))
}

// LinkRejected records one rejected link with its reason.
func (m *Metrics) LinkRejected(reason string) {
	m.linksRejected.WithLabelValues(reason).Inc()
}

// RecordsWritten records a delivered output batch.
func (m *Metrics) RecordsWritten(count int) {
	m.recordsWritten.Add(float64(count))
}

// OutputError records an output write failure.
func (m *Metrics) OutputError() {
	m.outputErrors.Inc()
}

// Registry exposes the underlying registry for the HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
