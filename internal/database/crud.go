// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/metrics"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/models"
)

// Write paths for the platform entities. The ranking engine itself only
// reads these tables; inserts exist for seeding and test fixtures, soft
// deletes for exercising the aggregation exclusion rules.

// InsertUser stores a user row. A zero ID or CreatedAt is filled in.
func (db *DB) InsertUser(ctx context.Context, u *models.User) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, nickname, is_deleted, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Nickname, u.IsDeleted, u.CreatedAt)
	metrics.RecordDBQuery("insert", "users", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// InsertBook stores a book row. A zero ID or CreatedAt is filled in.
func (db *DB) InsertBook(ctx context.Context, b *models.Book) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO books (id, title, author, publisher, published_date, isbn, rating, review_count, is_deleted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.Author, b.Publisher, b.PublishedDate, b.ISBN,
		b.Rating, b.ReviewCount, b.IsDeleted, b.CreatedAt)
	metrics.RecordDBQuery("insert", "books", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

// InsertReview stores a review row and bumps the book's lifetime aggregates.
func (db *DB) InsertReview(ctx context.Context, r *models.Review) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin review insert: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO reviews (id, book_id, user_id, content, rating, is_deleted, created_at)
		 VALUES (?, CAST(? AS UUID), CAST(? AS UUID), ?, ?, ?, ?)`,
		r.ID, r.BookID, r.UserID, r.Content, r.Rating, r.IsDeleted, r.CreatedAt); err != nil {
		_ = tx.Rollback()
		metrics.RecordDBQuery("insert", "reviews", time.Since(start), err)
		return fmt.Errorf("failed to insert review: %w", err)
	}

	// Lifetime aggregates on the book row stay consistent with live reviews
	if !r.IsDeleted {
		if _, err := tx.ExecContext(ctx,
			`UPDATE books SET
				rating = (rating * review_count + ?) / (review_count + 1),
				review_count = review_count + 1
			 WHERE id = CAST(? AS UUID)`,
			r.Rating, r.BookID); err != nil {
			_ = tx.Rollback()
			metrics.RecordDBQuery("insert", "reviews", time.Since(start), err)
			return fmt.Errorf("failed to update book aggregates: %w", err)
		}
	}

	err = tx.Commit()
	metrics.RecordDBQuery("insert", "reviews", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to commit review insert: %w", err)
	}
	return nil
}

// InsertComment stores a comment row. A zero ID or CreatedAt is filled in.
func (db *DB) InsertComment(ctx context.Context, c *models.Comment) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (id, review_id, user_id, is_deleted, created_at)
		 VALUES (?, CAST(? AS UUID), CAST(? AS UUID), ?, ?)`,
		c.ID, c.ReviewID, c.UserID, c.IsDeleted, c.CreatedAt)
	metrics.RecordDBQuery("insert", "comments", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// InsertReviewLike stores a like row. The (review, user) pair is unique;
// a duplicate insert surfaces the constraint violation to the caller.
func (db *DB) InsertReviewLike(ctx context.Context, l *models.ReviewLike) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO review_likes (review_id, user_id, created_at)
		 VALUES (CAST(? AS UUID), CAST(? AS UUID), ?)`,
		l.ReviewID, l.UserID, l.CreatedAt)
	metrics.RecordDBQuery("insert", "review_likes", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert review like: %w", err)
	}
	return nil
}

// SoftDeleteReview marks a review deleted. Subsequent aggregation runs treat
// it as absent; existing snapshot rows are untouched until the next batch.
func (db *DB) SoftDeleteReview(ctx context.Context, reviewID string) error {
	return db.softDelete(ctx, "reviews", reviewID)
}

// SoftDeleteUser marks a user deleted.
func (db *DB) SoftDeleteUser(ctx context.Context, userID string) error {
	return db.softDelete(ctx, "users", userID)
}

// SoftDeleteBook marks a book deleted.
func (db *DB) SoftDeleteBook(ctx context.Context, bookID string) error {
	return db.softDelete(ctx, "books", bookID)
}

// SoftDeleteComment marks a comment deleted.
func (db *DB) SoftDeleteComment(ctx context.Context, commentID string) error {
	return db.softDelete(ctx, "comments", commentID)
}

func (db *DB) softDelete(ctx context.Context, table, id string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET is_deleted = TRUE WHERE id = CAST(? AS UUID)", table), id)
	metrics.RecordDBQuery("soft_delete", table, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to soft delete from %s: %w", table, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check soft delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no row found in %s with id %s", table, id)
	}
	return nil
}
