// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

/*
snapshot.go - Atomic Snapshot Replace

Each leaderboard/period snapshot is replaced in a single transaction:

 1. Check the ranking_runs guard for (job_name, period, run_date). If a row
    exists the transaction rolls back and ErrAlreadyRan is returned, which
    the pipeline reports as a non-fatal skipped-duplicate.
 2. DELETE the previous snapshot rows for the period.
 3. INSERT the new ranked rows.
 4. INSERT the guard row.
 5. Commit.

Readers therefore always see either the complete previous snapshot or the
complete new one, and a failure at any step leaves the previous snapshot
fully intact.
*/

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/metrics"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/models"
)

// HasRunOnDate reports whether a guard row exists for the leaderboard,
// period, and calendar date. The pipeline pre-checks with this to skip
// aggregating for a run that already committed; the authoritative check
// still happens inside the replace transaction.
func (db *DB) HasRunOnDate(ctx context.Context, lb models.Leaderboard, period models.PeriodType, runDate time.Time) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var exists bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM ranking_runs
			WHERE job_name = ? AND period = ? AND run_date = CAST(? AS DATE)
		)`,
		string(lb), string(period), runDate.Format("2006-01-02")).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ranking run guard: %w", err)
	}
	return exists, nil
}

// ReplacePopularBooks atomically replaces the popular-books snapshot for the
// period. Returns ErrAlreadyRan if a run already committed for runDate.
func (db *DB) ReplacePopularBooks(ctx context.Context, period models.PeriodType, runDate, startedAt time.Time, entries []models.PopularBookEntry) error {
	return db.replaceSnapshot(ctx, models.LeaderboardPopularBooks, period, runDate, startedAt, len(entries),
		func(ctx context.Context, tx *sql.Tx, commitTime time.Time) error {
			stmt, err := tx.PrepareContext(ctx,
				`INSERT INTO popular_books (id, book_id, period, rank, score, review_count, rating, created_at)
				 VALUES (?, CAST(? AS UUID), ?, ?, ?, ?, ?, ?)`)
			if err != nil {
				return err
			}
			defer closeQuietly(stmt)

			for _, e := range entries {
				id := e.ID
				if id == "" {
					id = uuid.New().String()
				}
				if _, err := stmt.ExecContext(ctx, id, e.BookID, string(period),
					e.Rank, e.Score, e.ReviewCount, e.Rating, commitTime); err != nil {
					return err
				}
			}
			return nil
		})
}

// ReplacePopularReviews atomically replaces the popular-reviews snapshot for
// the period. Returns ErrAlreadyRan if a run already committed for runDate.
func (db *DB) ReplacePopularReviews(ctx context.Context, period models.PeriodType, runDate, startedAt time.Time, entries []models.PopularReviewEntry) error {
	return db.replaceSnapshot(ctx, models.LeaderboardPopularReviews, period, runDate, startedAt, len(entries),
		func(ctx context.Context, tx *sql.Tx, commitTime time.Time) error {
			stmt, err := tx.PrepareContext(ctx,
				`INSERT INTO popular_reviews (id, review_id, period, rank, score, like_count, comment_count, created_at)
				 VALUES (?, CAST(? AS UUID), ?, ?, ?, ?, ?, ?)`)
			if err != nil {
				return err
			}
			defer closeQuietly(stmt)

			for _, e := range entries {
				id := e.ID
				if id == "" {
					id = uuid.New().String()
				}
				if _, err := stmt.ExecContext(ctx, id, e.ReviewID, string(period),
					e.Rank, e.Score, e.LikeCount, e.CommentCount, commitTime); err != nil {
					return err
				}
			}
			return nil
		})
}

// ReplacePowerUsers atomically replaces the power-users snapshot for the
// period. Returns ErrAlreadyRan if a run already committed for runDate.
func (db *DB) ReplacePowerUsers(ctx context.Context, period models.PeriodType, runDate, startedAt time.Time, entries []models.PowerUserEntry) error {
	return db.replaceSnapshot(ctx, models.LeaderboardPowerUsers, period, runDate, startedAt, len(entries),
		func(ctx context.Context, tx *sql.Tx, commitTime time.Time) error {
			stmt, err := tx.PrepareContext(ctx,
				`INSERT INTO power_users (id, user_id, period, rank, score, review_score_sum, like_count, comment_count, created_at)
				 VALUES (?, CAST(? AS UUID), ?, ?, ?, ?, ?, ?, ?)`)
			if err != nil {
				return err
			}
			defer closeQuietly(stmt)

			for _, e := range entries {
				id := e.ID
				if id == "" {
					id = uuid.New().String()
				}
				if _, err := stmt.ExecContext(ctx, id, e.UserID, string(period),
					e.Rank, e.Score, e.ReviewScoreSum, e.LikeCount, e.CommentCount, commitTime); err != nil {
					return err
				}
			}
			return nil
		})
}

// replaceSnapshot runs the guarded delete-and-insert transaction shared by
// all three leaderboards. The insert callback writes the new rows using the
// provided transaction; commitTime becomes created_at on every row so a
// snapshot carries a single timestamp.
func (db *DB) replaceSnapshot(ctx context.Context, lb models.Leaderboard, period models.PeriodType, runDate, startedAt time.Time, entryCount int,
	insert func(ctx context.Context, tx *sql.Tx, commitTime time.Time) error) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	queryStart := time.Now()
	err := db.replaceSnapshotTx(ctx, lb, period, runDate, startedAt, insert)
	metrics.RecordDBQuery("replace", string(lb), time.Since(queryStart), err)
	if err != nil {
		return err
	}

	metrics.RecordSnapshotSize(string(lb), string(period), entryCount)
	return nil
}

func (db *DB) replaceSnapshotTx(ctx context.Context, lb models.Leaderboard, period models.PeriodType, runDate, startedAt time.Time,
	insert func(ctx context.Context, tx *sql.Tx, commitTime time.Time) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM ranking_runs
			WHERE job_name = ? AND period = ? AND run_date = CAST(? AS DATE)
		)`,
		string(lb), string(period), runDate.Format("2006-01-02")).Scan(&exists); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to check ranking run guard: %w", err)
	}
	if exists {
		_ = tx.Rollback()
		return fmt.Errorf("%s %s on %s: %w", lb, period, runDate.Format("2006-01-02"), ErrAlreadyRan)
	}

	// The table name is one of the three Leaderboard constants, never input
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE period = ?", string(lb)), string(period)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete previous %s snapshot: %w", lb, err)
	}

	commitTime := time.Now().UTC()
	if err := insert(ctx, tx, commitTime); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to insert %s snapshot rows: %w", lb, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ranking_runs (id, job_name, period, run_date, status, started_at, completed_at)
		 VALUES (?, ?, ?, CAST(? AS DATE), ?, ?, ?)`,
		uuid.New().String(), string(lb), string(period), runDate.Format("2006-01-02"),
		models.RunStatusCompleted, startedAt, commitTime); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to record ranking run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s snapshot: %w", lb, err)
	}
	return nil
}
