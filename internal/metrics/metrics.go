// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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
		[]string{"operation", "table", "error_type"},
	)

	DBConnectionPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duckdb_connection_pool_size",
			Help: "Current number of database connections in use",
		},
	)

	// Ingestion Metrics
	LogsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logs_ingested_total",
			Help: "Total number of log entries persisted",
		},
		[]string{"source"}, // "api", "bulk", "upload"
	)

	ParseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "log_parse_failures_total",
			Help: "Total number of raw lines no parser pattern claimed",
		},
	)

	IngestBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_batch_size",
			Help:    "Number of lines per ingestion batch",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_duration_seconds",
			Help:    "Duration of ingestion batches in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	// Detection Metrics
	DetectionEventsAnalyzed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "detection_events_analyzed_total",
			Help: "Total number of events run through the detection engine",
		},
	)

	DetectionAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detection_alerts_total",
			Help: "Total number of alerts generated by detection rules",
		},
		[]string{"rule", "severity"},
	)

	DetectionRuleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "detection_rule_duration_seconds",
			Help:    "Per-rule evaluation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"rule"},
	)

	DetectionRuleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detection_rule_errors_total",
			Help: "Total number of rule evaluation errors (isolated, batch continues)",
		},
		[]string{"rule"},
	)

	// Alert Lifecycle Metrics
	AlertsAcknowledged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_acknowledged_total",
			Help: "Total number of alert acknowledgements",
		},
	)

	AlertsResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_resolved_total",
			Help: "Total number of alert resolutions",
		},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alert_notifications_total",
			Help: "Total number of outbound alert notifications",
		},
		[]string{"notifier", "result"}, // result: "success", "failure"
	)

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
			Help: "Current number of active API requests",
		},
	)

	// Geolocation Metrics
	GeoCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geolocation_cache_hits_total",
			Help: "Total number of geolocation cache hits",
		},
	)

	GeoCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geolocation_cache_misses_total",
			Help: "Total number of geolocation cache misses",
		},
	)

	GeoFallbackDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geolocation_fallback_duration_seconds",
			Help:    "Duration of HTTP fallback geolocation lookups",
			Buckets: prometheus.DefBuckets,
		},
	)

	GeoFallbackErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geolocation_fallback_errors_total",
			Help: "Total number of failed HTTP fallback lookups",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Threat Intel Metrics
	BlacklistEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blacklist_entries",
			Help: "Current number of distinct blacklisted addresses",
		},
	)

	BlacklistFeedUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blacklist_feed_updates_total",
			Help: "Total number of blacklist feed refresh attempts",
		},
		[]string{"result"}, // "success", "unchanged", "failure"
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Event Bus Metrics
	BusMessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bus_messages_published_total",
			Help: "Total number of alert messages published to the event bus",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages to keep label cardinality sane
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordIngest records a completed ingestion batch.
func RecordIngest(source string, ingested int, duration time.Duration) {
	LogsIngested.WithLabelValues(source).Add(float64(ingested))
	IngestBatchSize.Observe(float64(ingested))
	IngestDuration.Observe(duration.Seconds())
}

// RecordRule records one detection rule evaluation.
func RecordRule(rule string, duration time.Duration, err error) {
	DetectionRuleDuration.WithLabelValues(rule).Observe(duration.Seconds())
	if err != nil {
		DetectionRuleErrors.WithLabelValues(rule).Inc()
	}
}

// RecordAlert records a generated alert.
func RecordAlert(rule, severity string) {
	DetectionAlerts.WithLabelValues(rule, severity).Inc()
}

// RecordNotification records an outbound notification attempt.
func RecordNotification(notifier string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	NotificationsSent.WithLabelValues(notifier, result).Inc()
}

// RecordFeedUpdate records a blacklist feed refresh outcome.
func RecordFeedUpdate(result string, entries int) {
	BlacklistFeedUpdates.WithLabelValues(result).Inc()
	if result != "failure" {
		BlacklistEntries.Set(float64(entries))
	}
}

// SetBreakerState publishes a circuit breaker state change.
// State encoding: 0=closed, 1=half-open, 2=open.
func SetBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
