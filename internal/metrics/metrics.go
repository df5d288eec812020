// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Database query performance (DuckDB)
// - API endpoint latency and throughput
// - Ranking batch pipeline runs and snapshot sizes

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Ranking Batch Metrics
	RankingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_runs_total",
			Help: "Total number of ranking batch runs",
		},
		[]string{"leaderboard", "period", "status"}, // status: "completed", "skipped", "failed"
	)

	RankingRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ranking_run_duration_seconds",
			Help:    "Duration of ranking batch runs in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}, // Full pipeline can take minutes
		},
		[]string{"leaderboard", "period"},
	)

	RankingSnapshotSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ranking_snapshot_entries",
			Help: "Number of entries in the most recent ranking snapshot",
		},
		[]string{"leaderboard", "period"},
	)

	RankingLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ranking_last_success_timestamp",
			Help: "Unix timestamp of the last successful ranking run",
		},
		[]string{"leaderboard", "period"},
	)

	RankingLeaderboardQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_leaderboard_queries_total",
			Help: "Total number of leaderboard page queries served",
		},
		[]string{"leaderboard", "period"},
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

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRankingRun records the outcome of a single leaderboard/period ranking run
func RecordRankingRun(leaderboard, period, status string, duration time.Duration) {
	RankingRunsTotal.WithLabelValues(leaderboard, period, status).Inc()
	RankingRunDuration.WithLabelValues(leaderboard, period).Observe(duration.Seconds())
	if status == "completed" {
		RankingLastSuccess.WithLabelValues(leaderboard, period).Set(float64(time.Now().Unix()))
	}
}

// RecordSnapshotSize records the entry count of a committed ranking snapshot
func RecordSnapshotSize(leaderboard, period string, entries int) {
	RankingSnapshotSize.WithLabelValues(leaderboard, period).Set(float64(entries))
}

// RecordLeaderboardQuery records a served leaderboard page query
func RecordLeaderboardQuery(leaderboard, period string) {
	RankingLeaderboardQueries.WithLabelValues(leaderboard, period).Inc()
}
