// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

/*
pipeline.go - Batch Pipeline

One run is a plain function chain: compute window, aggregate activity,
score, rank, replace snapshot. There is no partial progress to resume; a
failure anywhere before the snapshot commit leaves the previous snapshot
untouched. A guard pre-check skips a same-day re-run before it aggregates
anything; the duplicate-run guard inside the replace transaction stays
authoritative and turns a racing re-run into the same non-fatal skip.
*/

package ranking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/database"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/metrics"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/models"
)

// Store defines the database operations the pipeline needs.
type Store interface {
	HasRunOnDate(ctx context.Context, lb models.Leaderboard, period models.PeriodType, runDate time.Time) (bool, error)

	GetBookActivity(ctx context.Context, start, end *time.Time) ([]models.BookActivity, error)
	GetReviewActivity(ctx context.Context, start, end *time.Time) ([]models.ReviewActivity, error)
	GetUserActivity(ctx context.Context, start, end *time.Time) ([]models.UserActivity, error)

	ReplacePopularBooks(ctx context.Context, period models.PeriodType, runDate, startedAt time.Time, entries []models.PopularBookEntry) error
	ReplacePopularReviews(ctx context.Context, period models.PeriodType, runDate, startedAt time.Time, entries []models.PopularReviewEntry) error
	ReplacePowerUsers(ctx context.Context, period models.PeriodType, runDate, startedAt time.Time, entries []models.PowerUserEntry) error
}

// Pipeline executes ranking runs against a Store.
type Pipeline struct {
	store  Store
	loc    *time.Location
	logger zerolog.Logger
}

// NewPipeline creates a pipeline. loc is the batch timezone used for
// calendar-day windows and run dates; nil defaults to UTC.
func NewPipeline(store Store, loc *time.Location, logger *zerolog.Logger) *Pipeline {
	if loc == nil {
		loc = time.UTC
	}
	return &Pipeline{
		store:  store,
		loc:    loc,
		logger: logger.With().Str("component", "ranking-pipeline").Logger(),
	}
}

// Run executes one (leaderboard, period) ranking run with ref as the
// reference time. The returned result carries a terminal status of
// completed, skipped-duplicate, or failed; the error inside a failed
// result is also logged here.
func (p *Pipeline) Run(ctx context.Context, lb models.Leaderboard, period models.PeriodType, ref time.Time) models.BatchRunResult {
	startedAt := time.Now().UTC()
	result := models.BatchRunResult{
		Leaderboard: lb,
		Period:      period,
	}

	finish := func(status string, entries int, err error) models.BatchRunResult {
		duration := time.Since(startedAt)
		result.Status = status
		result.Entries = entries
		result.DurationMS = duration.Milliseconds()
		if err != nil {
			result.Error = err.Error()
		}
		metrics.RecordRankingRun(string(lb), string(period), status, duration)
		return result
	}

	// Fail fast on malformed job parameters before touching the store
	if !period.Valid() {
		err := fmt.Errorf("unsupported period type %q", period)
		p.logger.Error().Err(err).Str("leaderboard", string(lb)).Msg("Ranking run rejected")
		return finish(models.RunStatusFailed, 0, err)
	}

	start, end := Window(lb, period, ref, p.loc)
	runDate := ref.In(p.loc)

	logger := p.logger.With().
		Str("leaderboard", string(lb)).
		Str("period", string(period)).
		Str("run_date", runDate.Format("2006-01-02")).
		Logger()
	logger.Info().Msg("Starting ranking run")

	// Cheap pre-check so a same-day re-run skips before aggregating; the
	// guard inside the replace transaction remains authoritative
	ran, err := p.store.HasRunOnDate(ctx, lb, period, runDate)
	if err != nil {
		logger.Error().Err(err).Msg("Ranking run failed")
		return finish(models.RunStatusFailed, 0, err)
	}
	if ran {
		logger.Info().Msg("Ranking run skipped, snapshot already committed today")
		return finish(models.RunStatusSkipped, 0, nil)
	}

	var entryCount int
	switch lb {
	case models.LeaderboardPopularBooks:
		var activities []models.BookActivity
		if activities, err = p.store.GetBookActivity(ctx, start, end); err == nil {
			entries := RankBooks(period, activities)
			entryCount = len(entries)
			err = p.store.ReplacePopularBooks(ctx, period, runDate, startedAt, entries)
		}
	case models.LeaderboardPopularReviews:
		var activities []models.ReviewActivity
		if activities, err = p.store.GetReviewActivity(ctx, start, end); err == nil {
			entries := RankReviews(period, activities)
			entryCount = len(entries)
			err = p.store.ReplacePopularReviews(ctx, period, runDate, startedAt, entries)
		}
	case models.LeaderboardPowerUsers:
		var activities []models.UserActivity
		if activities, err = p.store.GetUserActivity(ctx, start, end); err == nil {
			entries := RankUsers(period, activities)
			entryCount = len(entries)
			err = p.store.ReplacePowerUsers(ctx, period, runDate, startedAt, entries)
		}
	default:
		err = fmt.Errorf("unknown leaderboard %q", lb)
	}

	switch {
	case err == nil:
		logger.Info().Int("entries", entryCount).Msg("Ranking run completed")
		return finish(models.RunStatusCompleted, entryCount, nil)
	case errors.Is(err, database.ErrAlreadyRan):
		logger.Info().Msg("Ranking run skipped, snapshot already committed today")
		return finish(models.RunStatusSkipped, 0, nil)
	default:
		logger.Error().Err(err).Msg("Ranking run failed")
		return finish(models.RunStatusFailed, 0, err)
	}
}

// RunAll executes every (leaderboard, period) combination. Leaderboards run
// concurrently; within a leaderboard, periods run sequentially. Results
// keep leaderboard-major order regardless of completion timing.
func (p *Pipeline) RunAll(ctx context.Context, ref time.Time) []models.BatchRunResult {
	results := make([]models.BatchRunResult, len(models.AllLeaderboards)*len(models.AllPeriods))

	var wg sync.WaitGroup
	for i, lb := range models.AllLeaderboards {
		wg.Add(1)
		go func(i int, lb models.Leaderboard) {
			defer wg.Done()
			for j, period := range models.AllPeriods {
				results[i*len(models.AllPeriods)+j] = p.Run(ctx, lb, period, ref)
			}
		}(i, lb)
	}
	wg.Wait()

	return results
}
