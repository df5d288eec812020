// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package api

import (
	"net/http"
	"time"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/config"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/database"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/database/query"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/logging"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/models"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/ranking"
)

// Handlers holds the dependencies shared by all HTTP handlers.
type Handlers struct {
	db        *database.DB
	pipeline  *ranking.Pipeline
	cfg       *config.Config
	startTime time.Time
}

// NewHandlers creates the handler set.
func NewHandlers(db *database.DB, pipeline *ranking.Pipeline, cfg *config.Config) *Handlers {
	return &Handlers{
		db:        db,
		pipeline:  pipeline,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// pageResponse assembles the cursor page envelope. nextCursor and nextAfter
// are null when no further page exists.
func pageResponse(content interface{}, size int, hasNext bool, nextCursor, nextAfter string, total int64) models.CursorPageResponse {
	resp := models.CursorPageResponse{
		Content:       content,
		Size:          size,
		TotalElements: &total,
		HasNext:       hasNext,
	}
	if hasNext {
		resp.NextCursor = &nextCursor
		resp.NextAfter = &nextAfter
	}
	return resp
}

// leaderboardQuery converts a validated request into a database query.
func leaderboardQuery(req LeaderboardRequest) database.LeaderboardQuery {
	dir, _ := query.ParseDirection(req.Direction)
	return database.LeaderboardQuery{
		Period:    models.PeriodType(req.Period),
		SortBy:    req.SortBy,
		Direction: dir,
		Limit:     req.Limit,
		Cursor:    req.Cursor,
		After:     req.After,
	}
}

// PopularBooks serves GET /api/v1/books/popular.
func (h *Handlers) PopularBooks(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, ve, err := ParseLeaderboardRequest(r, &h.cfg.API)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if ve != nil {
		rw.ValidationError(ve)
		return
	}

	ctx := r.Context()
	entries, hasNext, err := h.db.GetPopularBooks(ctx, leaderboardQuery(req))
	if err != nil {
		rw.MappedError(err)
		return
	}

	total, err := h.db.CountSnapshotEntries(ctx, models.LeaderboardPopularBooks, models.PeriodType(req.Period))
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	var nextCursor, nextAfter string
	if hasNext {
		sortBy, _ := database.NormalizeLeaderboardSort(req.SortBy)
		last := entries[len(entries)-1]
		nextCursor = database.EntryCursor(sortBy, last.Rank, last.Score, last.CreatedAt)
		nextAfter = last.ID
	}

	rw.Success(pageResponse(entries, len(entries), hasNext, nextCursor, nextAfter, total))
}

// PopularReviews serves GET /api/v1/reviews/popular.
func (h *Handlers) PopularReviews(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, ve, err := ParseLeaderboardRequest(r, &h.cfg.API)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if ve != nil {
		rw.ValidationError(ve)
		return
	}

	ctx := r.Context()
	entries, hasNext, err := h.db.GetPopularReviews(ctx, leaderboardQuery(req))
	if err != nil {
		rw.MappedError(err)
		return
	}

	total, err := h.db.CountSnapshotEntries(ctx, models.LeaderboardPopularReviews, models.PeriodType(req.Period))
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	var nextCursor, nextAfter string
	if hasNext {
		sortBy, _ := database.NormalizeLeaderboardSort(req.SortBy)
		last := entries[len(entries)-1]
		nextCursor = database.EntryCursor(sortBy, last.Rank, last.Score, last.CreatedAt)
		nextAfter = last.ID
	}

	rw.Success(pageResponse(entries, len(entries), hasNext, nextCursor, nextAfter, total))
}

// PowerUsers serves GET /api/v1/users/power.
func (h *Handlers) PowerUsers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, ve, err := ParseLeaderboardRequest(r, &h.cfg.API)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if ve != nil {
		rw.ValidationError(ve)
		return
	}

	ctx := r.Context()
	entries, hasNext, err := h.db.GetPowerUsers(ctx, leaderboardQuery(req))
	if err != nil {
		rw.MappedError(err)
		return
	}

	total, err := h.db.CountSnapshotEntries(ctx, models.LeaderboardPowerUsers, models.PeriodType(req.Period))
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	var nextCursor, nextAfter string
	if hasNext {
		sortBy, _ := database.NormalizeLeaderboardSort(req.SortBy)
		last := entries[len(entries)-1]
		nextCursor = database.EntryCursor(sortBy, last.Rank, last.Score, last.CreatedAt)
		nextAfter = last.ID
	}

	rw.Success(pageResponse(entries, len(entries), hasNext, nextCursor, nextAfter, total))
}

// Books serves GET /api/v1/books, the keyword-searchable catalog listing.
func (h *Handlers) Books(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, ve, err := ParseBookListRequest(r, &h.cfg.API)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if ve != nil {
		rw.ValidationError(ve)
		return
	}

	dir, _ := query.ParseDirection(req.Direction)
	ctx := r.Context()
	books, hasNext, err := h.db.ListBooks(ctx, database.BookQuery{
		Keyword:   req.Keyword,
		OrderBy:   req.OrderBy,
		Direction: dir,
		Limit:     req.Limit,
		Cursor:    req.Cursor,
		After:     req.After,
	})
	if err != nil {
		rw.MappedError(err)
		return
	}

	total, err := h.db.CountBooks(ctx, req.Keyword)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	var nextCursor, nextAfter string
	if hasNext {
		orderBy, _ := database.NormalizeBookSort(req.OrderBy)
		last := books[len(books)-1]
		nextCursor = database.BookCursor(orderBy, last)
		nextAfter = last.ID
	}

	rw.Success(pageResponse(books, len(books), hasNext, nextCursor, nextAfter, total))
}

// TriggerBatch serves POST /api/v1/batch/rankings. The body is optional:
// a period narrows the run to that period across all leaderboards, and
// referenceTime (RFC3339) replaces the wall clock for window computation.
// Already committed combinations come back as skipped-duplicate.
func (h *Handlers) TriggerBatch(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, ve, err := ParseTriggerBatchRequest(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if ve != nil {
		rw.ValidationError(ve)
		return
	}

	ref := time.Now()
	if !req.ReferenceTime.IsZero() {
		ref = req.ReferenceTime
	}

	var results []models.BatchRunResult
	if req.Period == "" {
		results = h.pipeline.RunAll(r.Context(), ref)
	} else {
		period := models.PeriodType(req.Period)
		for _, lb := range models.AllLeaderboards {
			results = append(results, h.pipeline.Run(r.Context(), lb, period, ref))
		}
	}

	rw.Success(map[string]interface{}{
		"results": results,
	})
}

// Live serves GET /api/v1/health/live. Process-up check only.
func (h *Handlers) Live(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// Ready serves GET /api/v1/health/ready. Ready means the database answers.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if err := h.db.Ping(r.Context()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
		rw.ServiceUnavailable("database is not ready")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}

// Health serves GET /api/v1/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := "ok"
	checks := map[string]string{"database": "ok"}

	if err := h.db.Ping(r.Context()); err != nil {
		status = "degraded"
		checks["database"] = err.Error()
	}

	payload := map[string]interface{}{
		"status":         status,
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"checks":         checks,
	}

	if status != "ok" {
		rw.writeJSON(http.StatusServiceUnavailable, models.APIResponse{
			Status:   statusError,
			Data:     payload,
			Metadata: rw.metadata(),
			Error: &models.APIError{
				Code:    ErrCodeInternal,
				Message: "one or more health checks failed",
			},
		})
		return
	}
	rw.Success(payload)
}
