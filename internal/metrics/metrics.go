// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Page composition (fan-out timing, per-section outcomes)
// - Database query performance (DuckDB)
// - Page cache efficiency
// - Recommendation provider health (circuit breaker)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Page Composition Metrics
	ComposePageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "compose_page_duration_seconds",
			Help:    "Full page composition duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"page"},
	)

	ComposeSectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compose_sections_total",
			Help: "Total number of section resolutions by outcome",
		},
		[]string{"outcome"}, // "ok", "error", "timeout"
	)

	ComposePersonalizedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compose_personalized_total",
			Help: "Total number of personalization passes by outcome",
		},
		[]string{"outcome"}, // "ranked", "no_scores", "error"
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Page Cache Metrics
	PageCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "page_cache_hits_total",
			Help: "Total number of page cache hits",
		},
	)

	PageCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "page_cache_misses_total",
			Help: "Total number of page cache misses",
		},
	)

	PageCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "page_cache_entries",
			Help: "Current number of cached page renders",
		},
	)

	// Recommendation Provider Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation provider requests",
		},
		[]string{"provider", "outcome"}, // outcome: "ok", "error", "open"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_request_duration_seconds",
			Help:    "Recommendation provider request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"provider"},
	)

	// Circuit Breaker Metrics (remote recommendation provider)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordSectionOutcome records one section resolution during composition.
func RecordSectionOutcome(outcome string) {
	ComposeSectionsTotal.WithLabelValues(outcome).Inc()
}

// RecordPageComposition records a full page render.
func RecordPageComposition(page string, duration time.Duration) {
	ComposePageDuration.WithLabelValues(page).Observe(duration.Seconds())
}

// RecordPersonalization records the outcome of a personalization pass.
func RecordPersonalization(outcome string) {
	ComposePersonalizedTotal.WithLabelValues(outcome).Inc()
}

// RecordRecommendRequest records a recommendation provider call.
func RecordRecommendRequest(provider, outcome string, duration time.Duration) {
	RecommendRequests.WithLabelValues(provider, outcome).Inc()
	RecommendDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
