// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

// Package metrics provides Prometheus instrumentation for the ranking engine.
//
// All metrics are registered with the default Prometheus registry via
// promauto at package initialization and exposed on /metrics by the HTTP
// server. Three concern groups are covered:
//
//   - duckdb_*: database query durations, errors, and pool size
//   - api_*: request counts, latency histograms, and rate limit rejections
//   - ranking_*: batch run outcomes by leaderboard/period, run durations,
//     snapshot sizes, and leaderboard query counts
//
// Recording helpers (RecordDBQuery, RecordAPIRequest, RecordRankingRun)
// should be preferred over direct metric access so label conventions stay
// consistent across call sites.
package metrics
