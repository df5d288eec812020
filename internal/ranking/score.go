// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package ranking

import "github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/models"

// Score weights. Changing any of these reshuffles every leaderboard on the
// next batch run, so they are deliberately package constants rather than
// configuration.
const (
	// Popular reviews: engagement received in the window
	reviewCommentWeight = 0.7
	reviewLikeWeight    = 0.3

	// Power users: authored review ratings plus engagement received
	userReviewScoreWeight = 0.5
	userLikeWeight        = 0.2
	userCommentWeight     = 0.3

	// Popular books: review volume plus review quality in the window
	bookReviewCountWeight = 0.4
	bookRatingWeight      = 0.6
)

// ReviewScore computes the popularity score of one review.
func ReviewScore(a models.ReviewActivity) float64 {
	return reviewCommentWeight*float64(a.CommentCount) + reviewLikeWeight*float64(a.LikeCount)
}

// UserScore computes the power-user score from window activity.
func UserScore(a models.UserActivity) float64 {
	return userReviewScoreWeight*a.ReviewScoreSum +
		userLikeWeight*float64(a.LikeCount) +
		userCommentWeight*float64(a.CommentCount)
}

// BookScore computes the popular-book score from window activity.
func BookScore(a models.BookActivity) float64 {
	return bookReviewCountWeight*float64(a.WindowReviewCount) + bookRatingWeight*a.WindowAvgRating
}
