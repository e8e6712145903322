// Package observability provides logging, metrics, and context support for
// the paper search service.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for federated searches, adapters and streams
//   - Context helpers for propagating correlation and search ids
//
// # Logging
//
// Create a logger from configuration:
//
//	logger := observability.NewLogger(observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	})
//
// Add search context to a logger:
//
//	logger = observability.WithSearchContext(logger, searchID, query, len(sources))
//
// # Metrics
//
//	metrics := observability.NewMetrics("paper_search")
//	metrics.RecordSearchStarted("arxiv")
//	metrics.RecordSearchCompleted("arxiv", 10, 1.2)
//
// # Standard Fields
//
//   - request_id: chi request id
//   - correlation_id: X-Correlation-ID of the inbound request
//   - search_id: id of one federated search
//   - source: caller-supplied source id
//   - kind: adapter kind serving the source
package observability
