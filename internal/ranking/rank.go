// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

/*
rank.go - Rank Assignment

Each leaderboard sorts its scored candidates with a total comparator chain
and assigns 1-based ranks strictly by position, so ranks are always
contiguous 1..N with no duplicates. The final chain link is the subject id,
which makes the ordering total and two runs over identical input
byte-for-byte deterministic.

Comparator chains (earlier links win, id ascending is always last):

	books:   score desc, window review count desc, id asc
	reviews: score desc, comment count desc, review created_at asc, id asc
	users:   score desc, like count desc, comment count desc, id asc
*/

package ranking

import (
	"sort"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/models"
)

// RankBooks scores and ranks book activity into snapshot rows.
func RankBooks(period models.PeriodType, activities []models.BookActivity) []models.PopularBookEntry {
	scored := make([]models.BookActivity, len(activities))
	copy(scored, activities)

	scores := make(map[string]float64, len(scored))
	for _, a := range scored {
		scores[a.BookID] = BookScore(a)
	}

	sort.Slice(scored, func(i, j int) bool {
		si, sj := scores[scored[i].BookID], scores[scored[j].BookID]
		if si != sj {
			return si > sj
		}
		if scored[i].WindowReviewCount != scored[j].WindowReviewCount {
			return scored[i].WindowReviewCount > scored[j].WindowReviewCount
		}
		return scored[i].BookID < scored[j].BookID
	})

	entries := make([]models.PopularBookEntry, len(scored))
	for i, a := range scored {
		entries[i] = models.PopularBookEntry{
			BookID:      a.BookID,
			Title:       a.Title,
			Author:      a.Author,
			Period:      period,
			Rank:        i + 1,
			Score:       scores[a.BookID],
			ReviewCount: a.LifetimeReviewCount,
			Rating:      a.LifetimeRating,
		}
	}
	return entries
}

// RankReviews scores and ranks review activity into snapshot rows.
func RankReviews(period models.PeriodType, activities []models.ReviewActivity) []models.PopularReviewEntry {
	scored := make([]models.ReviewActivity, len(activities))
	copy(scored, activities)

	scores := make(map[string]float64, len(scored))
	for _, a := range scored {
		scores[a.ReviewID] = ReviewScore(a)
	}

	sort.Slice(scored, func(i, j int) bool {
		si, sj := scores[scored[i].ReviewID], scores[scored[j].ReviewID]
		if si != sj {
			return si > sj
		}
		if scored[i].CommentCount != scored[j].CommentCount {
			return scored[i].CommentCount > scored[j].CommentCount
		}
		if !scored[i].CreatedAt.Equal(scored[j].CreatedAt) {
			return scored[i].CreatedAt.Before(scored[j].CreatedAt)
		}
		return scored[i].ReviewID < scored[j].ReviewID
	})

	entries := make([]models.PopularReviewEntry, len(scored))
	for i, a := range scored {
		entries[i] = models.PopularReviewEntry{
			ReviewID:      a.ReviewID,
			BookID:        a.BookID,
			BookTitle:     a.BookTitle,
			UserNickname:  a.UserNickname,
			ReviewContent: a.Content,
			ReviewRating:  a.Rating,
			Period:        period,
			Rank:          i + 1,
			Score:         scores[a.ReviewID],
			LikeCount:     a.LikeCount,
			CommentCount:  a.CommentCount,
			ReviewCreated: a.CreatedAt,
		}
	}
	return entries
}

// RankUsers scores and ranks user activity into snapshot rows.
func RankUsers(period models.PeriodType, activities []models.UserActivity) []models.PowerUserEntry {
	scored := make([]models.UserActivity, len(activities))
	copy(scored, activities)

	scores := make(map[string]float64, len(scored))
	for _, a := range scored {
		scores[a.UserID] = UserScore(a)
	}

	sort.Slice(scored, func(i, j int) bool {
		si, sj := scores[scored[i].UserID], scores[scored[j].UserID]
		if si != sj {
			return si > sj
		}
		if scored[i].LikeCount != scored[j].LikeCount {
			return scored[i].LikeCount > scored[j].LikeCount
		}
		if scored[i].CommentCount != scored[j].CommentCount {
			return scored[i].CommentCount > scored[j].CommentCount
		}
		return scored[i].UserID < scored[j].UserID
	})

	entries := make([]models.PowerUserEntry, len(scored))
	for i, a := range scored {
		entries[i] = models.PowerUserEntry{
			UserID:         a.UserID,
			Nickname:       a.Nickname,
			Period:         period,
			Rank:           i + 1,
			Score:          scores[a.UserID],
			ReviewScoreSum: a.ReviewScoreSum,
			LikeCount:      a.LikeCount,
			CommentCount:   a.CommentCount,
		}
	}
	return entries
}
