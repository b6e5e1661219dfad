// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

// Package metrics exposes Prometheus collectors for the recommendation
// service. All collectors are registered at init via promauto and served on
// the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation serving
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"algorithm", "status"},
	)

	RecommendationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_latency_seconds",
			Help:    "Recommendation computation latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"algorithm"},
	)

	RecommendationCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	RecommendationCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	// Behavior tracking
	InteractionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_recorded_total",
			Help: "Total number of recorded interactions",
		},
		[]string{"type"},
	)

	PageViewsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pageviews_recorded_total",
			Help: "Total number of recorded page views",
		},
	)

	ProfilesTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "profiles_tracked",
			Help: "Current number of user profiles held in memory",
		},
	)

	// Catalog feed
	CatalogFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fetches_total",
			Help: "Total number of catalog feed fetches",
		},
		[]string{"status"},
	)

	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Current number of indexed catalog items",
		},
	)

	// Circuit breaker protecting the catalog feed
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

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker",
		},
		[]string{"name", "result"},
	)

	// HTTP API
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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	// Background maintenance
	MaintenanceRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintenance_runs_total",
			Help: "Total number of background maintenance task runs",
		},
		[]string{"task", "status"},
	)

	// Telemetry pipeline
	TelemetryEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_events_published_total",
			Help: "Total number of telemetry events published",
		},
		[]string{"event"},
	)

	TelemetryEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telemetry_events_dropped_total",
			Help: "Total number of telemetry events dropped",
		},
	)
)
