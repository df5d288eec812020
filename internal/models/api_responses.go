// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses, with metadata
// for observability.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"content": [...], "hasNext": true, ...},
//	  "metadata": {
//	    "timestamp": "2026-08-31T12:00:00Z",
//	    "query_time_ms": 12
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "INVALID_CURSOR",
//	    "message": "cursor value \"abc\" is not valid for sort field rank",
//	    "details": {"field": "cursor"}
//	  },
//	  "metadata": {"timestamp": "2026-08-31T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and performance tracking.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Error codes:
//   - VALIDATION_ERROR: Invalid input parameters (limit, period, direction)
//   - INVALID_CURSOR: Cursor value does not parse for the target sort field
//   - NOT_FOUND: Resource or route doesn't exist
//   - RATE_LIMITED: Too many requests
//   - DATABASE_ERROR: Query execution failure
//   - INTERNAL_ERROR: Unexpected server failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// CursorPageResponse wraps a page of results with keyset pagination metadata.
// The same shape serves leaderboard pages and the book catalog listing.
//
// Fields:
//   - Content: page rows in sort order
//   - NextCursor: last row's primary sort value (null when HasNext is false)
//   - NextAfter: last row's tie-break value (created_at, or id as fallback)
//   - Size: number of rows in Content
//   - TotalElements: total rows matching the query, before pagination
//   - HasNext: whether another page exists
//
// Example:
//
//	{
//	  "content": [{"rank": 1, ...}, {"rank": 2, ...}],
//	  "nextCursor": "2",
//	  "nextAfter": "2026-08-30T00:00:00Z",
//	  "size": 2,
//	  "totalElements": 3,
//	  "hasNext": true
//	}
type CursorPageResponse struct {
	Content       interface{} `json:"content"`
	NextCursor    *string     `json:"nextCursor"`
	NextAfter     *string     `json:"nextAfter"`
	Size          int         `json:"size"`
	TotalElements *int64      `json:"totalElements"`
	HasNext       bool        `json:"hasNext"`
}

// BatchRunResult reports the outcome of one leaderboard/period pipeline run,
// returned by the manual batch trigger endpoint.
type BatchRunResult struct {
	Leaderboard Leaderboard `json:"leaderboard"`
	Period      PeriodType  `json:"period"`
	Status      string      `json:"status"` // completed, skipped-duplicate, failed
	Entries     int         `json:"entries"`
	DurationMS  int64       `json:"duration_ms"`
	Error       string      `json:"error,omitempty"`
}
