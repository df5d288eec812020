// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package ranking

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/database"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/logging"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/models"
)

// fakeStore records pipeline calls and returns canned data or errors.
// It is safe for concurrent use so scheduler tests can poll it.
type fakeStore struct {
	mu sync.Mutex

	bookActivities   []models.BookActivity
	reviewActivities []models.ReviewActivity
	userActivities   []models.UserActivity

	hasRun       bool
	hasRunErr    error
	aggregateErr error
	replaceErr   error

	replacedBooks   []models.PopularBookEntry
	replacedReviews []models.PopularReviewEntry
	replacedUsers   []models.PowerUserEntry
	lastWindowStart *time.Time
	lastWindowEnd   *time.Time
	replaceCalls    int
}

func (f *fakeStore) HasRunOnDate(_ context.Context, _ models.Leaderboard, _ models.PeriodType, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasRun, f.hasRunErr
}

func (f *fakeStore) GetBookActivity(_ context.Context, start, end *time.Time) ([]models.BookActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastWindowStart, f.lastWindowEnd = start, end
	return f.bookActivities, f.aggregateErr
}

func (f *fakeStore) GetReviewActivity(_ context.Context, start, end *time.Time) ([]models.ReviewActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastWindowStart, f.lastWindowEnd = start, end
	return f.reviewActivities, f.aggregateErr
}

func (f *fakeStore) GetUserActivity(_ context.Context, start, end *time.Time) ([]models.UserActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastWindowStart, f.lastWindowEnd = start, end
	return f.userActivities, f.aggregateErr
}

func (f *fakeStore) ReplacePopularBooks(_ context.Context, _ models.PeriodType, _, _ time.Time, entries []models.PopularBookEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaceCalls++
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replacedBooks = entries
	return nil
}

func (f *fakeStore) ReplacePopularReviews(_ context.Context, _ models.PeriodType, _, _ time.Time, entries []models.PopularReviewEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaceCalls++
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replacedReviews = entries
	return nil
}

func (f *fakeStore) ReplacePowerUsers(_ context.Context, _ models.PeriodType, _, _ time.Time, entries []models.PowerUserEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaceCalls++
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replacedUsers = entries
	return nil
}

// calls returns the replace call count under the lock.
func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.replaceCalls
}

func newTestPipeline(store Store) *Pipeline {
	logger := logging.NewTestLogger(io.Discard)
	return NewPipeline(store, time.UTC, &logger)
}

func TestPipelineRunCompletes(t *testing.T) {
	store := &fakeStore{
		userActivities: []models.UserActivity{
			{UserID: "u1", ReviewScoreSum: 15, LikeCount: 5},
			{UserID: "u2", ReviewScoreSum: 8, LikeCount: 2},
		},
	}
	p := newTestPipeline(store)

	result := p.Run(context.Background(), models.LeaderboardPowerUsers, models.PeriodDaily, time.Now().UTC())

	assert.Equal(t, models.RunStatusCompleted, result.Status)
	assert.Equal(t, 2, result.Entries)
	assert.Empty(t, result.Error)

	require.Len(t, store.replacedUsers, 2)
	assert.Equal(t, "u1", store.replacedUsers[0].UserID)
	assert.Equal(t, 1, store.replacedUsers[0].Rank)
	assert.Equal(t, 2, store.replacedUsers[1].Rank)
}

func TestPipelineRunPassesWindowToStore(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(store)
	ref := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	result := p.Run(context.Background(), models.LeaderboardPopularReviews, models.PeriodWeekly, ref)
	require.Equal(t, models.RunStatusCompleted, result.Status)

	require.NotNil(t, store.lastWindowStart)
	require.NotNil(t, store.lastWindowEnd)
	assert.Equal(t, ref.AddDate(0, 0, -7), *store.lastWindowStart)
	assert.Equal(t, ref, *store.lastWindowEnd)

	result = p.Run(context.Background(), models.LeaderboardPopularReviews, models.PeriodAllTime, ref)
	require.Equal(t, models.RunStatusCompleted, result.Status)
	assert.Nil(t, store.lastWindowStart)
	assert.Nil(t, store.lastWindowEnd)
}

func TestPipelineRunSkipsDuplicate(t *testing.T) {
	store := &fakeStore{replaceErr: database.ErrAlreadyRan}
	p := newTestPipeline(store)

	result := p.Run(context.Background(), models.LeaderboardPopularBooks, models.PeriodDaily, time.Now().UTC())

	assert.Equal(t, models.RunStatusSkipped, result.Status)
	assert.Empty(t, result.Error, "a duplicate run is not a failure")
}

func TestPipelineRunPreCheckSkipsWithoutAggregating(t *testing.T) {
	store := &fakeStore{hasRun: true}
	p := newTestPipeline(store)

	result := p.Run(context.Background(), models.LeaderboardPowerUsers, models.PeriodDaily, time.Now().UTC())

	assert.Equal(t, models.RunStatusSkipped, result.Status)
	assert.Empty(t, result.Error)
	assert.Zero(t, store.replaceCalls)
	assert.Nil(t, store.lastWindowEnd, "a pre-checked duplicate must not aggregate")
}

func TestPipelineRunFailsOnPreCheckError(t *testing.T) {
	store := &fakeStore{hasRunErr: errors.New("guard query failed")}
	p := newTestPipeline(store)

	result := p.Run(context.Background(), models.LeaderboardPopularBooks, models.PeriodDaily, time.Now().UTC())

	assert.Equal(t, models.RunStatusFailed, result.Status)
	assert.Contains(t, result.Error, "guard query failed")
	assert.Zero(t, store.replaceCalls)
}

func TestPipelineRunFailsOnAggregateError(t *testing.T) {
	store := &fakeStore{aggregateErr: errors.New("store unreachable")}
	p := newTestPipeline(store)

	result := p.Run(context.Background(), models.LeaderboardPowerUsers, models.PeriodMonthly, time.Now().UTC())

	assert.Equal(t, models.RunStatusFailed, result.Status)
	assert.Contains(t, result.Error, "store unreachable")
	assert.Zero(t, store.replaceCalls, "aggregation failure must abort before any write")
}

func TestPipelineRunFailsFastOnBadPeriod(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(store)

	result := p.Run(context.Background(), models.LeaderboardPowerUsers, models.PeriodType("HOURLY"), time.Now().UTC())

	assert.Equal(t, models.RunStatusFailed, result.Status)
	assert.Zero(t, store.replaceCalls)
	assert.Nil(t, store.lastWindowEnd, "store must not be queried for a rejected job")
}

func TestPipelineRunAllCoversEveryCombination(t *testing.T) {
	store := &fakeStore{
		userActivities: []models.UserActivity{{UserID: "u1", ReviewScoreSum: 5}},
	}
	p := newTestPipeline(store)

	results := p.RunAll(context.Background(), time.Now().UTC())

	require.Len(t, results, len(models.AllLeaderboards)*len(models.AllPeriods))

	type combo struct {
		lb     models.Leaderboard
		period models.PeriodType
	}
	seen := map[combo]bool{}
	for _, r := range results {
		assert.Equal(t, models.RunStatusCompleted, r.Status)
		seen[combo{r.Leaderboard, r.Period}] = true
	}
	assert.Len(t, seen, len(results), "every combination must appear exactly once")
}
