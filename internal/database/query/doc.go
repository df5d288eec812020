// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

// Package query provides a small predicate builder for the database layer.
//
// The builder keeps leaderboard-specific filter logic declarative: period
// windows, soft-delete exclusion, keyword matching, and the keyset pagination
// seek predicate are all composed from the same WhereBuilder, then joined
// with AND into a parameterized WHERE clause.
//
// The keyset seek predicate is the core of cursor pagination:
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("period", period)
//	if cursor != nil {
//	    wb.AddKeysetSeek("rank", "created_at", dir, cursor, after)
//	}
//	where, args := wb.Build()
//
// Every value flows through a "?" placeholder; column names are compile-time
// constants chosen by the callers, never user input.
package query
