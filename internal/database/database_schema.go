// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

/*
database_schema.go - Database Schema Management

This file manages the DuckDB database schema including table creation
and index management.

Tables:
  - users, books, reviews, comments, review_likes: platform activity data
    the ranking engine aggregates over (CRUD surfaces live elsewhere)
  - popular_books, popular_reviews, power_users: ranking snapshot tables,
    bulk-replaced per (period) by each batch run
  - ranking_runs: duplicate-run guard records, one per successful run
    per (job_name, period, run_date)

Schema Strategy:
All columns are defined in the initial CREATE TABLE statements. Incremental
changes after release go through versioned migrations in migrations.go.

Index Strategy:
  - (period, rank) on every snapshot table: the primary leaderboard read path
  - created_at on reviews/comments/review_likes: window-bounded aggregation
  - review_id on comments/review_likes: grouped counting per review
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// tableCreationQueries returns the table creation SQL statements
func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL,
			nickname TEXT NOT NULL,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// rating and review_count are lifetime aggregates maintained by the
		// review CRUD surface; the ranking engine only reads them
		`CREATE TABLE IF NOT EXISTS books (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			publisher TEXT,
			published_date DATE,
			isbn TEXT,
			rating DOUBLE NOT NULL DEFAULT 0,
			review_count BIGINT NOT NULL DEFAULT 0,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS reviews (
			id UUID PRIMARY KEY,
			book_id UUID NOT NULL,
			user_id UUID NOT NULL,
			content TEXT,
			rating INTEGER NOT NULL,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS comments (
			id UUID PRIMARY KEY,
			review_id UUID NOT NULL,
			user_id UUID NOT NULL,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS review_likes (
			review_id UUID NOT NULL,
			user_id UUID NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (review_id, user_id)
		)`,

		// Snapshot tables. Rows are only ever written in bulk inside the
		// snapshot-replace transaction; rank is 1-based and contiguous
		// within (period).
		`CREATE TABLE IF NOT EXISTS popular_books (
			id UUID PRIMARY KEY,
			book_id UUID NOT NULL,
			period TEXT NOT NULL,
			rank INTEGER NOT NULL,
			score DOUBLE NOT NULL,
			review_count BIGINT NOT NULL,
			rating DOUBLE NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS popular_reviews (
			id UUID PRIMARY KEY,
			review_id UUID NOT NULL,
			period TEXT NOT NULL,
			rank INTEGER NOT NULL,
			score DOUBLE NOT NULL,
			like_count BIGINT NOT NULL,
			comment_count BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS power_users (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			period TEXT NOT NULL,
			rank INTEGER NOT NULL,
			score DOUBLE NOT NULL,
			review_score_sum DOUBLE NOT NULL,
			like_count BIGINT NOT NULL,
			comment_count BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		// Duplicate-run guard. The unique constraint is the idempotency
		// backstop; the replace transaction checks-and-sets a row here.
		`CREATE TABLE IF NOT EXISTS ranking_runs (
			id UUID PRIMARY KEY,
			job_name TEXT NOT NULL,
			period TEXT NOT NULL,
			run_date DATE NOT NULL,
			status TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			completed_at TIMESTAMP,
			UNIQUE (job_name, period, run_date)
		)`,
	}
}

// createIndexes creates indexes for the common query patterns
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		// Leaderboard read path: period filter + rank/score ordering
		`CREATE INDEX IF NOT EXISTS idx_popular_books_period_rank ON popular_books (period, rank)`,
		`CREATE INDEX IF NOT EXISTS idx_popular_reviews_period_rank ON popular_reviews (period, rank)`,
		`CREATE INDEX IF NOT EXISTS idx_power_users_period_rank ON power_users (period, rank)`,

		// Window-bounded aggregation scans
		`CREATE INDEX IF NOT EXISTS idx_reviews_created_at ON reviews (created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_created_at ON comments (created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_review_likes_created_at ON review_likes (created_at)`,

		// Grouped counting per review / per book / per user
		`CREATE INDEX IF NOT EXISTS idx_comments_review_id ON comments (review_id)`,
		`CREATE INDEX IF NOT EXISTS idx_review_likes_review_id ON review_likes (review_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_book_id ON reviews (book_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_user_id ON reviews (user_id)`,

		// Guard lookups
		`CREATE INDEX IF NOT EXISTS idx_ranking_runs_job ON ranking_runs (job_name, period, run_date)`,
	}

	for _, idx := range indexes {
		if _, err := db.conn.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", idx, err)
		}
	}

	return nil
}
