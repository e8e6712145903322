package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search modes used as the "mode" label.
const (
	ModeSync   = "sync"
	ModeStream = "stream"
)

// Metrics contains all Prometheus metrics for the paper search service.
// Per-source metrics are labeled by adapter kind rather than by the
// caller-supplied source id, which keeps label cardinality bounded.
// All collectors are registered via promauto with the default registry.
type Metrics struct {
	// FederatedSearches counts coordinated searches, labeled by mode.
	FederatedSearches *prometheus.CounterVec

	// FederatedSearchDuration observes end-to-end search duration in seconds, labeled by mode.
	FederatedSearchDuration *prometheus.HistogramVec

	// PapersReturned counts papers returned to callers.
	PapersReturned prometheus.Counter

	// SearchesStarted counts adapter calls initiated, labeled by source kind.
	SearchesStarted *prometheus.CounterVec

	// SearchesCompleted counts successful adapter calls, labeled by source kind.
	SearchesCompleted *prometheus.CounterVec

	// SearchesFailed counts adapter calls that failed and degraded to zero papers.
	SearchesFailed *prometheus.CounterVec

	// SearchDuration observes adapter call duration in seconds, labeled by source kind.
	SearchDuration *prometheus.HistogramVec

	// PapersPerSearch observes the number of papers per adapter call, labeled by source kind.
	PapersPerSearch *prometheus.HistogramVec

	// StreamEvents counts streamed events, labeled by event type.
	StreamEvents *prometheus.CounterVec

	// DownloadsResolved counts resolved download links, labeled by kind (arxiv, passthrough).
	DownloadsResolved *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		FederatedSearches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "federated_searches_total",
			Help:      "Total number of federated searches by mode",
		}, []string{"mode"}),
		FederatedSearchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "federated_search_duration_seconds",
			Help:      "Duration of federated searches in seconds by mode",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"mode"}),
		PapersReturned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_returned_total",
			Help:      "Total number of papers returned to callers",
		}),

		SearchesStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_started_total",
			Help:      "Total number of paper searches started by source",
		}, []string{"source"}),
		SearchesCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_completed_total",
			Help:      "Total number of paper searches completed by source",
		}, []string{"source"}),
		SearchesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_failed_total",
			Help:      "Total number of paper searches that failed by source",
		}, []string{"source"}),
		SearchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of paper searches in seconds by source",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"source"}),
		PapersPerSearch: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "papers_per_search",
			Help:      "Number of papers returned per search by source",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}, []string{"source"}),

		StreamEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_events_total",
			Help:      "Total number of progress stream events sent by type",
		}, []string{"type"}),
		DownloadsResolved: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_resolved_total",
			Help:      "Total number of download links resolved by kind",
		}, []string{"kind"}),
	}
}

// RecordFederatedSearch records a finished coordinated search.
func (m *Metrics) RecordFederatedSearch(mode string, paperCount int, durationSeconds float64) {
	m.FederatedSearches.WithLabelValues(mode).Inc()
	m.FederatedSearchDuration.WithLabelValues(mode).Observe(durationSeconds)
	m.PapersReturned.Add(float64(paperCount))
}

// RecordSearchStarted records that an adapter call has started.
func (m *Metrics) RecordSearchStarted(source string) {
	m.SearchesStarted.WithLabelValues(source).Inc()
}

// RecordSearchCompleted records that an adapter call has completed.
func (m *Metrics) RecordSearchCompleted(source string, paperCount int, durationSeconds float64) {
	m.SearchesCompleted.WithLabelValues(source).Inc()
	m.SearchDuration.WithLabelValues(source).Observe(durationSeconds)
	m.PapersPerSearch.WithLabelValues(source).Observe(float64(paperCount))
}

// RecordSearchFailed records that an adapter call has failed.
func (m *Metrics) RecordSearchFailed(source string, durationSeconds float64) {
	m.SearchesFailed.WithLabelValues(source).Inc()
	m.SearchDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordStreamEvent records one streamed event.
func (m *Metrics) RecordStreamEvent(eventType string) {
	m.StreamEvents.WithLabelValues(eventType).Inc()
}

// RecordDownloadResolved records a resolved download link.
func (m *Metrics) RecordDownloadResolved(kind string) {
	m.DownloadsResolved.WithLabelValues(kind).Inc()
}
