// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package models

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	for _, s := range []string{"DAILY", "WEEKLY", "MONTHLY", "ALL_TIME"} {
		p, err := ParsePeriod(s)
		require.NoError(t, err)
		assert.Equal(t, PeriodType(s), p)
		assert.True(t, p.Valid())
	}

	for _, s := range []string{"daily", "YEARLY", "", "ALLTIME"} {
		_, err := ParsePeriod(s)
		assert.Error(t, err, "period %q should be rejected", s)
	}
}

func TestAllPeriodsOrder(t *testing.T) {
	assert.Equal(t, []PeriodType{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAllTime}, AllPeriods)
}

func TestLeaderboardNamesAreTableNames(t *testing.T) {
	assert.Equal(t, "popular_books", string(LeaderboardPopularBooks))
	assert.Equal(t, "popular_reviews", string(LeaderboardPopularReviews))
	assert.Equal(t, "power_users", string(LeaderboardPowerUsers))
	assert.Len(t, AllLeaderboards, 3)
}

func TestCursorPageResponseJSONNulls(t *testing.T) {
	resp := CursorPageResponse{
		Content: []PopularBookEntry{},
		Size:    0,
		HasNext: false,
	}

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	// Exhausted pages must serialize cursors as explicit nulls, not omit them
	assert.Contains(t, string(raw), `"nextCursor":null`)
	assert.Contains(t, string(raw), `"nextAfter":null`)
	assert.Contains(t, string(raw), `"hasNext":false`)
}

func TestSoftDeleteFlagsHiddenFromJSON(t *testing.T) {
	raw, err := json.Marshal(Book{ID: "b1", Title: "Go in Action", IsDeleted: true})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "IsDeleted")
	assert.NotContains(t, string(raw), "is_deleted")
}
