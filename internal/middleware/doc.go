// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

// Package middleware provides HTTP middleware for the ranking API.
//
// The middleware functions wrap http.HandlerFunc and compose in the order
// the router applies them:
//
//   - RequestID: assigns/propagates X-Request-ID and seeds the logging
//     context with request and correlation IDs
//   - PrometheusMetrics: records request counts, latency, and the active
//     request gauge
//   - Compression: gzip-compresses responses for clients that accept it
//
// Rate limiting and CORS are handled by go-chi/httprate and go-chi/cors
// directly in the router setup rather than here.
package middleware
