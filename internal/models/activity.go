// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package models

import "time"

// Raw activity counts produced by the aggregation queries. These are the
// inputs to the score formulas; they carry no scores or ranks themselves.

// BookActivity holds per-book counts for one period window.
type BookActivity struct {
	BookID string
	Title  string
	Author string

	// Window-scoped counts (reviews created inside [start, end))
	WindowReviewCount int64
	WindowAvgRating   float64

	// Lifetime totals for display on the snapshot row
	LifetimeReviewCount int64
	LifetimeRating      float64
}

// ReviewActivity holds per-review counts for one period window.
type ReviewActivity struct {
	ReviewID     string
	BookID       string
	BookTitle    string
	UserNickname string
	Content      string
	Rating       int
	CreatedAt    time.Time // Review creation time, tie-break key

	LikeCount    int64
	CommentCount int64
}

// UserActivity holds per-user counts for one period window.
type UserActivity struct {
	UserID   string
	Nickname string

	ReviewScoreSum float64 // Sum of ratings of the user's reviews in the window
	LikeCount      int64   // Likes received on the user's reviews
	CommentCount   int64   // Comments received on the user's reviews
}
