// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package metrics exposes Prometheus instrumentation for CineRec.
//
// Metric families:
//   - cinerec_db_*: DuckDB query latency and errors
//   - cinerec_api_*: HTTP request counts, latency, in-flight gauge
//   - cinerec_engine_*: recommendation requests, latency, fallbacks, cache
//   - cinerec_precompute_*: per-job duration, rows written, failures
//   - cinerec_import_*: rows imported from MovieLens files
//
// All collectors are registered on the default registry via promauto and
// served by promhttp at /metrics.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinerec_db_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_db_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinerec_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinerec_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Engine Metrics
	EngineRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_engine_requests_total",
			Help: "Total number of recommendation engine calls",
		},
		[]string{"operation"},
	)

	EngineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinerec_engine_duration_seconds",
			Help:    "Duration of recommendation engine calls in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"operation"},
	)

	EngineFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_engine_fallbacks_total",
			Help: "Number of recommendation calls served by a fallback path",
		},
		[]string{"operation", "reason"},
	)

	EngineStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_engine_store_errors_total",
			Help: "Storage failures absorbed by the engine",
		},
		[]string{"operation"},
	)

	EngineCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinerec_engine_cache_hits_total",
			Help: "Engine result cache hits",
		},
	)

	EngineCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinerec_engine_cache_misses_total",
			Help: "Engine result cache misses",
		},
	)

	// Precompute Metrics
	PrecomputeJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinerec_precompute_job_duration_seconds",
			Help:    "Duration of precompute jobs in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"job"},
	)

	PrecomputeRowsWritten = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinerec_precompute_rows_written",
			Help: "Rows written by the most recent run of each precompute job",
		},
		[]string{"job"},
	)

	PrecomputeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_precompute_failures_total",
			Help: "Number of failed precompute jobs",
		},
		[]string{"job"},
	)

	PrecomputeLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinerec_precompute_last_success_timestamp",
			Help: "Unix timestamp of the last fully successful precompute run",
		},
	)

	// Import Metrics
	ImportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_import_rows_total",
			Help: "Rows imported from MovieLens files",
		},
		[]string{"kind"},
	)

	ImportSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_import_skipped_total",
			Help: "Malformed rows skipped during import",
		},
		[]string{"kind"},
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, classifyError(err)).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordEngineCall records one engine operation.
func RecordEngineCall(operation string, duration time.Duration) {
	EngineRequests.WithLabelValues(operation).Inc()
	EngineDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordEngineFallback records a call served by a fallback path.
func RecordEngineFallback(operation, reason string) {
	EngineFallbacks.WithLabelValues(operation, reason).Inc()
}

// RecordEngineStoreError records a storage failure the engine absorbed.
func RecordEngineStoreError(operation string) {
	EngineStoreErrors.WithLabelValues(operation).Inc()
}

// RecordEngineCache records a cache lookup.
func RecordEngineCache(hit bool) {
	if hit {
		EngineCacheHits.Inc()
	} else {
		EngineCacheMisses.Inc()
	}
}

// RecordPrecomputeJob records the outcome of one precompute job.
func RecordPrecomputeJob(job string, duration time.Duration, rows int, err error) {
	PrecomputeJobDuration.WithLabelValues(job).Observe(duration.Seconds())
	if err != nil {
		PrecomputeFailures.WithLabelValues(job).Inc()
		return
	}
	PrecomputeRowsWritten.WithLabelValues(job).Set(float64(rows))
}

// RecordPrecomputeSuccess marks a fully successful run.
func RecordPrecomputeSuccess(at time.Time) {
	PrecomputeLastSuccess.Set(float64(at.Unix()))
}

// RecordImport records imported and skipped rows for one file kind.
func RecordImport(kind string, imported, skipped int) {
	ImportRows.WithLabelValues(kind).Add(float64(imported))
	ImportSkipped.WithLabelValues(kind).Add(float64(skipped))
}

// classifyError maps an error to a low-cardinality label.
func classifyError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "context deadline exceeded"):
		return "timeout"
	case strings.Contains(msg, "context canceled"):
		return "canceled"
	case strings.Contains(msg, "constraint"):
		return "constraint"
	case strings.Contains(msg, "connection"):
		return "connection"
	default:
		return "other"
	}
}
