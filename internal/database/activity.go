// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

/*
activity.go - Window-Bounded Activity Aggregation

These queries produce the raw per-entity counts the ranking pipeline scores
and ranks. All of them share the same window semantics:

  - Bounds are half-open [start, end); a nil bound is unbounded, so the
    ALL_TIME window passes (nil, nil) and scans everything.
  - Soft-deleted rows are absent: deleted reviews contribute nothing to any
    count, deleted comments are not counted, deleted users and books never
    appear as candidates, and likes or comments authored by deleted users
    do not count toward anyone.
  - Books are candidates even with zero window activity (a quiet catalog
    still produces a full leaderboard); reviews and users with zero window
    activity are excluded.
*/

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/database/query"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/metrics"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/models"
)

// GetBookActivity returns window activity for every live book.
func (db *DB) GetBookActivity(ctx context.Context, start, end *time.Time) ([]models.BookActivity, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	window := query.NewWhereBuilder().
		AddNotDeleted("r").
		AddTimeRange("r.created_at", start, end)
	windowClause, windowArgs := window.Build()

	// CAST ids to VARCHAR because DuckDB's Go driver returns UUID columns
	// as raw bytes, not canonical UUID text
	q := fmt.Sprintf(`
		SELECT CAST(b.id AS VARCHAR), b.title, b.author,
		       COALESCE(w.review_count, 0),
		       COALESCE(w.avg_rating, 0),
		       b.review_count, b.rating
		FROM books b
		LEFT JOIN (
			SELECT r.book_id,
			       COUNT(*) AS review_count,
			       AVG(CAST(r.rating AS DOUBLE)) AS avg_rating
			FROM reviews r
			WHERE %s
			GROUP BY r.book_id
		) w ON w.book_id = b.id
		WHERE b.is_deleted = FALSE
		ORDER BY b.id`, windowClause)

	startTime := time.Now()
	rows, err := db.conn.QueryContext(ctx, q, windowArgs...)
	metrics.RecordDBQuery("aggregate", "books", time.Since(startTime), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query book activity: %w", err)
	}
	defer closeWithLog(rows, "book activity rows")

	var activities []models.BookActivity
	for rows.Next() {
		var a models.BookActivity
		if err := rows.Scan(&a.BookID, &a.Title, &a.Author,
			&a.WindowReviewCount, &a.WindowAvgRating,
			&a.LifetimeReviewCount, &a.LifetimeRating); err != nil {
			return nil, fmt.Errorf("failed to scan book activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// GetReviewActivity returns window activity for reviews that received at
// least one like or comment inside the window. Likes and comments on a
// review count toward the review regardless of when the review was written.
func (db *DB) GetReviewActivity(ctx context.Context, start, end *time.Time) ([]models.ReviewActivity, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	likeWindow := query.NewWhereBuilder().AddTimeRange("l.created_at", start, end)
	likeClause, likeArgs := likeWindow.Build()

	commentWindow := query.NewWhereBuilder().
		AddNotDeleted("c").
		AddTimeRange("c.created_at", start, end)
	commentClause, commentArgs := commentWindow.Build()

	// Likes and comments from soft-deleted users do not count
	q := fmt.Sprintf(`
		SELECT CAST(r.id AS VARCHAR), CAST(r.book_id AS VARCHAR), b.title, u.nickname,
		       COALESCE(r.content, ''), r.rating, r.created_at,
		       COALESCE(l.like_count, 0), COALESCE(c.comment_count, 0)
		FROM reviews r
		JOIN users u ON u.id = r.user_id AND u.is_deleted = FALSE
		JOIN books b ON b.id = r.book_id
		LEFT JOIN (
			SELECT l.review_id, COUNT(*) AS like_count
			FROM review_likes l
			JOIN users lu ON lu.id = l.user_id AND lu.is_deleted = FALSE
			WHERE %s
			GROUP BY l.review_id
		) l ON l.review_id = r.id
		LEFT JOIN (
			SELECT c.review_id, COUNT(*) AS comment_count
			FROM comments c
			JOIN users cu ON cu.id = c.user_id AND cu.is_deleted = FALSE
			WHERE %s
			GROUP BY c.review_id
		) c ON c.review_id = r.id
		WHERE r.is_deleted = FALSE
		  AND COALESCE(l.like_count, 0) + COALESCE(c.comment_count, 0) > 0
		ORDER BY r.id`, likeClause, commentClause)

	args := append(likeArgs, commentArgs...)

	startTime := time.Now()
	rows, err := db.conn.QueryContext(ctx, q, args...)
	metrics.RecordDBQuery("aggregate", "reviews", time.Since(startTime), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query review activity: %w", err)
	}
	defer closeWithLog(rows, "review activity rows")

	var activities []models.ReviewActivity
	for rows.Next() {
		var a models.ReviewActivity
		if err := rows.Scan(&a.ReviewID, &a.BookID, &a.BookTitle, &a.UserNickname,
			&a.Content, &a.Rating, &a.CreatedAt,
			&a.LikeCount, &a.CommentCount); err != nil {
			return nil, fmt.Errorf("failed to scan review activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// GetUserActivity returns window activity for users with at least one of:
// a review written in the window, a like received in the window, or a
// comment received in the window. Received counts only cover the user's
// live reviews.
func (db *DB) GetUserActivity(ctx context.Context, start, end *time.Time) ([]models.UserActivity, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	reviewWindow := query.NewWhereBuilder().
		AddNotDeleted("r").
		AddTimeRange("r.created_at", start, end)
	reviewClause, reviewArgs := reviewWindow.Build()

	likeWindow := query.NewWhereBuilder().
		AddNotDeleted("r").
		AddTimeRange("l.created_at", start, end)
	likeClause, likeArgs := likeWindow.Build()

	commentWindow := query.NewWhereBuilder().
		AddNotDeleted("r").
		AddNotDeleted("c").
		AddTimeRange("c.created_at", start, end)
	commentClause, commentArgs := commentWindow.Build()

	q := fmt.Sprintf(`
		SELECT CAST(u.id AS VARCHAR), u.nickname,
		       COALESCE(rs.score_sum, 0),
		       COALESCE(lk.like_count, 0),
		       COALESCE(cm.comment_count, 0)
		FROM users u
		LEFT JOIN (
			SELECT r.user_id, SUM(CAST(r.rating AS DOUBLE)) AS score_sum
			FROM reviews r
			WHERE %s
			GROUP BY r.user_id
		) rs ON rs.user_id = u.id
		LEFT JOIN (
			SELECT r.user_id, COUNT(*) AS like_count
			FROM review_likes l
			JOIN reviews r ON r.id = l.review_id
			JOIN users lu ON lu.id = l.user_id AND lu.is_deleted = FALSE
			WHERE %s
			GROUP BY r.user_id
		) lk ON lk.user_id = u.id
		LEFT JOIN (
			SELECT r.user_id, COUNT(*) AS comment_count
			FROM comments c
			JOIN reviews r ON r.id = c.review_id
			JOIN users cu ON cu.id = c.user_id AND cu.is_deleted = FALSE
			WHERE %s
			GROUP BY r.user_id
		) cm ON cm.user_id = u.id
		WHERE u.is_deleted = FALSE
		  AND COALESCE(rs.score_sum, 0) + COALESCE(lk.like_count, 0) + COALESCE(cm.comment_count, 0) > 0
		ORDER BY u.id`, reviewClause, likeClause, commentClause)

	args := append(reviewArgs, likeArgs...)
	args = append(args, commentArgs...)

	startTime := time.Now()
	rows, err := db.conn.QueryContext(ctx, q, args...)
	metrics.RecordDBQuery("aggregate", "users", time.Since(startTime), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query user activity: %w", err)
	}
	defer closeWithLog(rows, "user activity rows")

	var activities []models.UserActivity
	for rows.Next() {
		var a models.UserActivity
		if err := rows.Scan(&a.UserID, &a.Nickname,
			&a.ReviewScoreSum, &a.LikeCount, &a.CommentCount); err != nil {
			return nil, fmt.Errorf("failed to scan user activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
