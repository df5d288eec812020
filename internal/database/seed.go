// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/logging"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/models"
)

// SeedSampleData loads a small demo dataset for local development. It is
// idempotent per database file: if any user row exists the seed is skipped.
// Activity timestamps are spread over the trailing month so every period
// window produces a non-empty leaderboard after the first batch run.
func (db *DB) SeedSampleData(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var existing int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&existing); err != nil {
		return fmt.Errorf("failed to check for existing data: %w", err)
	}
	if existing > 0 {
		logging.Debug().Msg("Sample data seed skipped, database is not empty")
		return nil
	}

	now := time.Now().UTC()

	users := []models.User{
		{Email: "mina@example.com", Nickname: "mina", CreatedAt: now.AddDate(0, -2, 0)},
		{Email: "jun@example.com", Nickname: "jun", CreatedAt: now.AddDate(0, -2, 0)},
		{Email: "sora@example.com", Nickname: "sora", CreatedAt: now.AddDate(0, -1, 0)},
		{Email: "haru@example.com", Nickname: "haru", CreatedAt: now.AddDate(0, -1, 0)},
	}
	for i := range users {
		if err := db.InsertUser(ctx, &users[i]); err != nil {
			return err
		}
	}

	books := []models.Book{
		{Title: "The Midnight Library", Author: "Matt Haig", Publisher: "Canongate",
			PublishedDate: time.Date(2020, 8, 13, 0, 0, 0, 0, time.UTC), ISBN: "9781786892737"},
		{Title: "Pachinko", Author: "Min Jin Lee", Publisher: "Grand Central",
			PublishedDate: time.Date(2017, 2, 7, 0, 0, 0, 0, time.UTC), ISBN: "9781455563920"},
		{Title: "Tomorrow, and Tomorrow, and Tomorrow", Author: "Gabrielle Zevin", Publisher: "Knopf",
			PublishedDate: time.Date(2022, 7, 5, 0, 0, 0, 0, time.UTC), ISBN: "9780593321201"},
	}
	for i := range books {
		if err := db.InsertBook(ctx, &books[i]); err != nil {
			return err
		}
	}

	reviews := []models.Review{
		{BookID: books[0].ID, UserID: users[0].ID, Content: "Could not put it down.", Rating: 5,
			CreatedAt: now.Add(-6 * time.Hour)},
		{BookID: books[0].ID, UserID: users[1].ID, Content: "A warm, hopeful read.", Rating: 4,
			CreatedAt: now.AddDate(0, 0, -3)},
		{BookID: books[1].ID, UserID: users[2].ID, Content: "Sweeping and devastating.", Rating: 5,
			CreatedAt: now.AddDate(0, 0, -10)},
		{BookID: books[2].ID, UserID: users[3].ID, Content: "The best book about friendship.", Rating: 4,
			CreatedAt: now.AddDate(0, 0, -20)},
	}
	for i := range reviews {
		if err := db.InsertReview(ctx, &reviews[i]); err != nil {
			return err
		}
	}

	comments := []models.Comment{
		{ReviewID: reviews[0].ID, UserID: users[1].ID, CreatedAt: now.Add(-3 * time.Hour)},
		{ReviewID: reviews[0].ID, UserID: users[2].ID, CreatedAt: now.Add(-2 * time.Hour)},
		{ReviewID: reviews[2].ID, UserID: users[0].ID, CreatedAt: now.AddDate(0, 0, -5)},
	}
	for i := range comments {
		if err := db.InsertComment(ctx, &comments[i]); err != nil {
			return err
		}
	}

	likes := []models.ReviewLike{
		{ReviewID: reviews[0].ID, UserID: users[2].ID, CreatedAt: now.Add(-4 * time.Hour)},
		{ReviewID: reviews[0].ID, UserID: users[3].ID, CreatedAt: now.Add(-1 * time.Hour)},
		{ReviewID: reviews[1].ID, UserID: users[0].ID, CreatedAt: now.AddDate(0, 0, -2)},
		{ReviewID: reviews[2].ID, UserID: users[3].ID, CreatedAt: now.AddDate(0, 0, -8)},
	}
	for i := range likes {
		if err := db.InsertReviewLike(ctx, &likes[i]); err != nil {
			return err
		}
	}

	logging.Info().
		Int("users", len(users)).
		Int("books", len(books)).
		Int("reviews", len(reviews)).
		Msg("Seeded sample data")
	return nil
}
