// Package metrics defines the Prometheus instruments exported by the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	// HTTPRequestsTotal tracks requests by method, route, and status class
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route, and status",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)
)

// Database metrics
var (
	// DBQueryDuration tracks query latency by simplified query name
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query"},
	)

	// DBErrorsTotal tracks query errors by simplified query name
	DBErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Total database query errors",
		},
		[]string{"query"},
	)
)

// Redis metrics
var (
	// RedisOpsTotal tracks total Redis operations by operation type and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// RedisConnectionErrors tracks Redis connection errors
	RedisConnectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_connection_errors_total",
			Help: "Total Redis connection errors",
		},
	)

	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)

// Declaration metrics
var (
	// DeclarationsTotal tracks committed declaration lines
	DeclarationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "declarations_total",
			Help: "Total committed declaration lines",
		},
	)

	// DeclarationBatchSize tracks lines per committed batch
	DeclarationBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "declaration_batch_size",
			Help:    "Number of lines per committed declaration batch",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	// DuplicateSubmitsTotal tracks declaration batches rejected by the
	// double-submit guard
	DuplicateSubmitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "declaration_duplicate_submits_total",
			Help: "Declaration batches rejected as immediate duplicates",
		},
	)

	// LayoutCacheHits tracks layout cache hits and misses
	LayoutCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "layout_cache_requests_total",
			Help: "Layout cache lookups by result (hit/miss)",
		},
		[]string{"result"},
	)
)

// WebSocket metrics
var (
	// WSConnectedClients tracks currently connected map viewers
	WSConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connected_clients",
			Help: "Currently connected WebSocket map viewers",
		},
	)

	// WSSlowClientsEvicted tracks slow clients dropped due to full buffers
	WSSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_slow_clients_evicted_total",
			Help: "Slow WebSocket clients evicted due to full send buffers",
		},
	)

	// WSEventsBroadcast tracks declaration events fanned out to viewers
	WSEventsBroadcast = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_events_broadcast_total",
			Help: "Declaration events broadcast to WebSocket viewers",
		},
	)

	// PubSubReconnectionsTotal tracks pub/sub reconnection attempts
	PubSubReconnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pubsub_reconnections_total",
			Help: "Total pub/sub reconnection attempts after disconnect",
		},
	)
)
