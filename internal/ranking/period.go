// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

// Package ranking implements the batch pipeline that turns raw platform
// activity into committed leaderboard snapshots: window calculation,
// aggregation, weighted scoring, rank assignment, and the scheduled runner.
package ranking

import (
	"time"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/models"
)

// Window returns the half-open [start, end) activity window for one
// leaderboard run. Nil bounds mean unbounded, so ALL_TIME returns (nil, nil).
//
// DAILY is leaderboard-specific: popular books cover the previous calendar
// day in the batch timezone (the day's reviews are final once the day ends),
// while reviews and power users cover the trailing 24 hours from the
// reference time. WEEKLY and MONTHLY are trailing 7 and 30 days for all
// leaderboards.
func Window(lb models.Leaderboard, period models.PeriodType, ref time.Time, loc *time.Location) (*time.Time, *time.Time) {
	if loc == nil {
		loc = time.UTC
	}

	switch period {
	case models.PeriodDaily:
		if lb == models.LeaderboardPopularBooks {
			local := ref.In(loc)
			todayMidnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
			start := todayMidnight.AddDate(0, 0, -1)
			return &start, &todayMidnight
		}
		start := ref.Add(-24 * time.Hour)
		return &start, &ref
	case models.PeriodWeekly:
		start := ref.AddDate(0, 0, -7)
		return &start, &ref
	case models.PeriodMonthly:
		start := ref.AddDate(0, 0, -30)
		return &start, &ref
	default: // ALL_TIME
		return nil, nil
	}
}
