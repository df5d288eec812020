// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package models

import (
	"fmt"
	"time"
)

// PeriodType identifies the time window a ranking snapshot covers.
type PeriodType string

// Supported ranking periods.
const (
	PeriodDaily   PeriodType = "DAILY"
	PeriodWeekly  PeriodType = "WEEKLY"
	PeriodMonthly PeriodType = "MONTHLY"
	PeriodAllTime PeriodType = "ALL_TIME"
)

// AllPeriods lists every period type in batch execution order.
var AllPeriods = []PeriodType{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAllTime}

// Valid reports whether p is a supported period type.
func (p PeriodType) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAllTime:
		return true
	}
	return false
}

// ParsePeriod converts a request string to a PeriodType.
func ParsePeriod(s string) (PeriodType, error) {
	p := PeriodType(s)
	if !p.Valid() {
		return "", fmt.Errorf("unsupported period type %q", s)
	}
	return p, nil
}

// Leaderboard identifies one of the three ranking snapshots.
type Leaderboard string

// Leaderboard identifiers. The values double as snapshot table names and
// metric label values.
const (
	LeaderboardPopularBooks   Leaderboard = "popular_books"
	LeaderboardPopularReviews Leaderboard = "popular_reviews"
	LeaderboardPowerUsers     Leaderboard = "power_users"
)

// AllLeaderboards lists every leaderboard in batch execution order.
var AllLeaderboards = []Leaderboard{
	LeaderboardPopularBooks,
	LeaderboardPopularReviews,
	LeaderboardPowerUsers,
}

// Batch run terminal statuses reported by the ranking pipeline.
const (
	RunStatusCompleted = "completed"
	RunStatusSkipped   = "skipped-duplicate"
	RunStatusFailed    = "failed"
)

// PopularBookEntry is a persisted popular-books snapshot row, joined with
// book display fields for API responses.
//
// Rank is 1-based and contiguous within (leaderboard, period). Score is the
// weighted composite of window review-count growth and window average rating.
type PopularBookEntry struct {
	ID          string     `json:"id"`
	BookID      string     `json:"bookId"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Period      PeriodType `json:"period"`
	Rank        int        `json:"rank"`
	Score       float64    `json:"score"`
	ReviewCount int64      `json:"reviewCount"`
	Rating      float64    `json:"rating"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// PopularReviewEntry is a persisted popular-reviews snapshot row, joined with
// review display fields for API responses.
type PopularReviewEntry struct {
	ID             string     `json:"id"`
	ReviewID       string     `json:"reviewId"`
	BookID         string     `json:"bookId"`
	BookTitle      string     `json:"bookTitle"`
	UserNickname   string     `json:"userNickname"`
	ReviewContent  string     `json:"reviewContent"`
	ReviewRating   int        `json:"reviewRating"`
	Period         PeriodType `json:"period"`
	Rank           int        `json:"rank"`
	Score          float64    `json:"score"`
	LikeCount      int64      `json:"likeCount"`
	CommentCount   int64      `json:"commentCount"`
	ReviewCreated  time.Time  `json:"reviewCreatedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// PowerUserEntry is a persisted power-users snapshot row, joined with the
// user's nickname for API responses.
type PowerUserEntry struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	Nickname       string     `json:"nickname"`
	Period         PeriodType `json:"period"`
	Rank           int        `json:"rank"`
	Score          float64    `json:"score"`
	ReviewScoreSum float64    `json:"reviewScoreSum"`
	LikeCount      int64      `json:"likeCount"`
	CommentCount   int64      `json:"commentCount"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// RankingRun is the duplicate-run guard record. One row exists per
// (job_name, period, run_date) for every successful snapshot commit; the
// pipeline checks it inside the snapshot transaction before writing.
type RankingRun struct {
	ID          string     `json:"id"`
	JobName     string     `json:"jobName"`
	Period      PeriodType `json:"period"`
	RunDate     time.Time  `json:"runDate"` // Calendar date in the batch timezone
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
