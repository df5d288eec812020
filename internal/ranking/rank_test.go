// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/models"
)

func TestReviewScoreWeights(t *testing.T) {
	score := ReviewScore(models.ReviewActivity{LikeCount: 10, CommentCount: 10})
	assert.InDelta(t, 10.0, score, 1e-9)

	score = ReviewScore(models.ReviewActivity{LikeCount: 5, CommentCount: 0})
	assert.InDelta(t, 1.5, score, 1e-9)

	score = ReviewScore(models.ReviewActivity{LikeCount: 0, CommentCount: 2})
	assert.InDelta(t, 1.4, score, 1e-9)
}

func TestUserScoreWeights(t *testing.T) {
	score := UserScore(models.UserActivity{ReviewScoreSum: 10, LikeCount: 5, CommentCount: 10})
	assert.InDelta(t, 0.5*10+0.2*5+0.3*10, score, 1e-9)
}

func TestBookScoreWeights(t *testing.T) {
	score := BookScore(models.BookActivity{WindowReviewCount: 5, WindowAvgRating: 4.0})
	assert.InDelta(t, 0.4*5+0.6*4.0, score, 1e-9)

	assert.Zero(t, BookScore(models.BookActivity{}))
}

func TestRankUsersAssignsContiguousRanks(t *testing.T) {
	activities := []models.UserActivity{
		{UserID: "c", ReviewScoreSum: 2, LikeCount: 1},  // score 1.2
		{UserID: "a", ReviewScoreSum: 15, LikeCount: 5}, // score 8.5
		{UserID: "b", ReviewScoreSum: 8, LikeCount: 2},  // score 4.4
	}

	entries := RankUsers(models.PeriodDaily, activities)
	require.Len(t, entries, 3)

	assert.Equal(t, "a", entries[0].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.InDelta(t, 8.5, entries[0].Score, 1e-9)

	assert.Equal(t, "b", entries[1].UserID)
	assert.Equal(t, 2, entries[1].Rank)
	assert.InDelta(t, 4.4, entries[1].Score, 1e-9)

	assert.Equal(t, "c", entries[2].UserID)
	assert.Equal(t, 3, entries[2].Rank)

	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank, "ranks must be contiguous from 1")
		assert.Equal(t, models.PeriodDaily, e.Period)
	}
}

func TestRankUsersTieBreakChain(t *testing.T) {
	// Equal scores: likes desc, then comments desc, then id asc
	activities := []models.UserActivity{
		{UserID: "z", ReviewScoreSum: 2, LikeCount: 0, CommentCount: 0},
		{UserID: "m", ReviewScoreSum: 0, LikeCount: 5, CommentCount: 0},
		{UserID: "a", ReviewScoreSum: 0, LikeCount: 0, CommentCount: 0},
	}
	// z: 0.5*2 = 1.0; m: 0.2*5 = 1.0; a: 0
	entries := RankUsers(models.PeriodWeekly, activities)

	require.Len(t, entries, 3)
	assert.Equal(t, "m", entries[0].UserID, "more likes wins the tie")
	assert.Equal(t, "z", entries[1].UserID)
	assert.Equal(t, "a", entries[2].UserID)
}

func TestRankReviewsTieBreakChain(t *testing.T) {
	earlier := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	// All score 1.4 (2 comments each); comment counts equal; earlier
	// created_at wins, then id
	activities := []models.ReviewActivity{
		{ReviewID: "r3", CommentCount: 2, CreatedAt: later},
		{ReviewID: "r2", CommentCount: 2, CreatedAt: earlier},
		{ReviewID: "r1", CommentCount: 2, CreatedAt: later},
	}

	entries := RankReviews(models.PeriodMonthly, activities)
	require.Len(t, entries, 3)
	assert.Equal(t, "r2", entries[0].ReviewID)
	assert.Equal(t, "r1", entries[1].ReviewID)
	assert.Equal(t, "r3", entries[2].ReviewID)
}

func TestRankBooksTieBreakChain(t *testing.T) {
	// Equal scores via different mixes: window review count desc breaks it
	activities := []models.BookActivity{
		{BookID: "b2", WindowReviewCount: 3, WindowAvgRating: 3.0}, // 0.4*3+0.6*3 = 3.0
		{BookID: "b1", WindowReviewCount: 0, WindowAvgRating: 5.0}, // 0.6*5 = 3.0
	}

	entries := RankBooks(models.PeriodDaily, activities)
	require.Len(t, entries, 2)
	assert.Equal(t, "b2", entries[0].BookID)
	assert.Equal(t, "b1", entries[1].BookID)
}

func TestRankBooksCarriesLifetimeDisplayFields(t *testing.T) {
	activities := []models.BookActivity{
		{BookID: "b1", Title: "T", Author: "A", WindowReviewCount: 1, WindowAvgRating: 4,
			LifetimeReviewCount: 42, LifetimeRating: 4.1},
	}

	entries := RankBooks(models.PeriodAllTime, activities)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(42), entries[0].ReviewCount)
	assert.InDelta(t, 4.1, entries[0].Rating, 1e-9)
	assert.Equal(t, "T", entries[0].Title)
}

// Two runs over identical input must produce identical output.
func TestRankingIsDeterministic(t *testing.T) {
	activities := []models.UserActivity{
		{UserID: "u1", ReviewScoreSum: 4, LikeCount: 2, CommentCount: 1},
		{UserID: "u2", ReviewScoreSum: 4, LikeCount: 2, CommentCount: 1},
		{UserID: "u3", ReviewScoreSum: 8, LikeCount: 0, CommentCount: 0},
	}

	first := RankUsers(models.PeriodDaily, activities)

	// Shuffled input order must not matter
	shuffled := []models.UserActivity{activities[2], activities[0], activities[1]}
	second := RankUsers(models.PeriodDaily, shuffled)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].UserID, second[i].UserID)
		assert.Equal(t, first[i].Rank, second[i].Rank)
	}
}

func TestRankEmptyInput(t *testing.T) {
	assert.Empty(t, RankBooks(models.PeriodDaily, nil))
	assert.Empty(t, RankReviews(models.PeriodDaily, nil))
	assert.Empty(t, RankUsers(models.PeriodDaily, nil))
}
