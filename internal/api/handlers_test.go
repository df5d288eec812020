// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/config"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/database"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/logging"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/models"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/ranking"
)

// apiTestSemaphore serializes in-memory DuckDB fixtures within this package.
var apiTestSemaphore = make(chan struct{}, 1)

// envelope mirrors the response wrapper with raw data for per-test decoding.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

type pageBody struct {
	Content       json.RawMessage `json:"content"`
	NextCursor    *string         `json:"nextCursor"`
	NextAfter     *string         `json:"nextAfter"`
	Size          int             `json:"size"`
	TotalElements *int64          `json:"totalElements"`
	HasNext       bool            `json:"hasNext"`
}

func testConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{
			Path:      ":memory:",
			MaxMemory: "256MB",
			Threads:   1,
		},
		Server: config.ServerConfig{
			Port:    8080,
			Host:    "127.0.0.1",
			Timeout: 30 * time.Second,
		},
		API: config.APIConfig{
			DefaultPageSize: 50,
			MaxPageSize:     100,
		},
		Security: config.SecurityConfig{
			RateLimitDisabled: true,
			CORSOrigins:       []string{"*"},
		},
	}
}

// setupTestServer builds a full router over an in-memory database.
func setupTestServer(t *testing.T) (*database.DB, http.Handler) {
	t.Helper()

	apiTestSemaphore <- struct{}{}
	t.Cleanup(func() { <-apiTestSemaphore })

	cfg := testConfig()
	db, err := database.New(&cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	logger := logging.NewTestLogger(testWriter{t})
	pipeline := ranking.NewPipeline(db, time.UTC, &logger)
	handlers := NewHandlers(db, pipeline, cfg)
	return db, NewRouter(cfg, handlers).Setup()
}

// testWriter routes log output through t.Logf so failures carry context.
type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Logf("%s", p)
	return len(p), nil
}

// seedPowerUsers commits a three-row daily power-users snapshot with scores
// 8.5 / 4.4 / 2.2 at ranks 1 / 2 / 3.
func seedPowerUsers(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	users := []models.User{
		{Email: "a@example.com", Nickname: "ada"},
		{Email: "b@example.com", Nickname: "ben"},
		{Email: "c@example.com", Nickname: "cleo"},
	}
	for i := range users {
		require.NoError(t, db.InsertUser(ctx, &users[i]))
	}

	entries := []models.PowerUserEntry{
		{UserID: users[0].ID, Rank: 1, Score: 8.5, ReviewScoreSum: 10, LikeCount: 5, CommentCount: 3},
		{UserID: users[1].ID, Rank: 2, Score: 4.4, ReviewScoreSum: 6, LikeCount: 2, CommentCount: 1},
		{UserID: users[2].ID, Rank: 3, Score: 2.2, ReviewScoreSum: 3, LikeCount: 1, CommentCount: 0},
	}
	require.NoError(t, db.ReplacePowerUsers(ctx, models.PeriodDaily, now, now, entries))
}

func doRequest(t *testing.T, handler http.Handler, method, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec, env
}

func decodePage(t *testing.T, env envelope) pageBody {
	t.Helper()
	var page pageBody
	require.NoError(t, json.Unmarshal(env.Data, &page))
	return page
}

func TestPowerUsersFirstAndSecondPage(t *testing.T) {
	db, handler := setupTestServer(t)
	seedPowerUsers(t, db)

	rec, env := doRequest(t, handler, http.MethodGet, "/api/v1/users/power?period=DAILY&limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "success", env.Status)

	page := decodePage(t, env)
	assert.Equal(t, 2, page.Size)
	assert.True(t, page.HasNext)
	require.NotNil(t, page.NextCursor)
	require.NotNil(t, page.NextAfter)
	assert.Equal(t, "2", *page.NextCursor)
	require.NotNil(t, page.TotalElements)
	assert.Equal(t, int64(3), *page.TotalElements)

	var entries []models.PowerUserEntry
	require.NoError(t, json.Unmarshal(page.Content, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "ada", entries[0].Nickname)

	// Feed nextCursor/nextAfter back for the final page
	rec, env = doRequest(t, handler, http.MethodGet,
		"/api/v1/users/power?period=DAILY&limit=2&cursor="+*page.NextCursor+"&after="+*page.NextAfter)
	require.Equal(t, http.StatusOK, rec.Code)

	page = decodePage(t, env)
	assert.Equal(t, 1, page.Size)
	assert.False(t, page.HasNext)
	assert.Nil(t, page.NextCursor)
	assert.Nil(t, page.NextAfter)

	require.NoError(t, json.Unmarshal(page.Content, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Rank)
	assert.Equal(t, "cleo", entries[0].Nickname)
}

func TestPowerUsersMalformedCursorIsClientError(t *testing.T) {
	db, handler := setupTestServer(t)
	seedPowerUsers(t, db)

	rec, env := doRequest(t, handler, http.MethodGet,
		"/api/v1/users/power?period=DAILY&limit=2&cursor=abc&after=11111111-1111-1111-1111-111111111111")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeInvalidCursor, env.Error.Code)
}

func TestPowerUsersValidation(t *testing.T) {
	_, handler := setupTestServer(t)

	tests := []struct {
		name   string
		target string
	}{
		{"missing period", "/api/v1/users/power"},
		{"bad period", "/api/v1/users/power?period=HOURLY"},
		{"limit too small", "/api/v1/users/power?period=DAILY&limit=0"},
		{"limit too large", "/api/v1/users/power?period=DAILY&limit=101"},
		{"limit not a number", "/api/v1/users/power?period=DAILY&limit=ten"},
		{"bad direction", "/api/v1/users/power?period=DAILY&direction=UP"},
		{"bad sort field", "/api/v1/users/power?period=DAILY&orderBy=nickname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doRequest(t, handler, http.MethodGet, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "error", env.Status)
		})
	}
}

func TestPopularEndpointsEmptySnapshot(t *testing.T) {
	_, handler := setupTestServer(t)

	for _, target := range []string{
		"/api/v1/books/popular?period=WEEKLY",
		"/api/v1/reviews/popular?period=WEEKLY",
		"/api/v1/users/power?period=WEEKLY",
	} {
		rec, env := doRequest(t, handler, http.MethodGet, target)
		require.Equal(t, http.StatusOK, rec.Code, target)

		page := decodePage(t, env)
		assert.Zero(t, page.Size, target)
		assert.False(t, page.HasNext, target)
	}
}

func TestBooksCatalogListing(t *testing.T) {
	db, handler := setupTestServer(t)
	ctx := context.Background()

	books := []models.Book{
		{Title: "Alpha", Author: "Kim", Publisher: "P", Rating: 4.0, ReviewCount: 3,
			PublishedDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "Beta", Author: "Lee", Publisher: "P", Rating: 3.0, ReviewCount: 9,
			PublishedDate: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for i := range books {
		require.NoError(t, db.InsertBook(ctx, &books[i]))
	}

	rec, env := doRequest(t, handler, http.MethodGet, "/api/v1/books?orderBy=reviewCount&direction=DESC")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decodePage(t, env)
	assert.Equal(t, 2, page.Size)

	var got []models.Book
	require.NoError(t, json.Unmarshal(page.Content, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Beta", got[0].Title)

	rec, env = doRequest(t, handler, http.MethodGet, "/api/v1/books?keyword=alp")
	require.Equal(t, http.StatusOK, rec.Code)
	page = decodePage(t, env)
	assert.Equal(t, 1, page.Size)
}

func TestTriggerBatchRunsAndSkipsDuplicates(t *testing.T) {
	db, handler := setupTestServer(t)
	ctx := context.Background()

	user := models.User{Email: "a@example.com", Nickname: "ada"}
	require.NoError(t, db.InsertUser(ctx, &user))
	book := models.Book{Title: "T", Author: "A"}
	require.NoError(t, db.InsertBook(ctx, &book))
	review := models.Review{BookID: book.ID, UserID: user.ID, Rating: 5, Content: "good"}
	require.NoError(t, db.InsertReview(ctx, &review))

	rec, env := doRequest(t, handler, http.MethodPost, "/api/v1/batch/rankings")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []models.BatchRunResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	require.Len(t, body.Results, 12)
	for _, r := range body.Results {
		assert.Equal(t, models.RunStatusCompleted, r.Status,
			"%s/%s should complete on first trigger", r.Leaderboard, r.Period)
	}

	// Second trigger on the same day is a wall-to-wall duplicate skip
	rec, env = doRequest(t, handler, http.MethodPost, "/api/v1/batch/rankings")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &body))
	for _, r := range body.Results {
		assert.Equal(t, models.RunStatusSkipped, r.Status)
	}
}

func TestHealthEndpoints(t *testing.T) {
	_, handler := setupTestServer(t)

	for _, target := range []string{
		"/api/v1/health",
		"/api/v1/health/live",
		"/api/v1/health/ready",
	} {
		rec, env := doRequest(t, handler, http.MethodGet, target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, "success", env.Status, target)
	}
}

func TestTriggerBatchScopedToPeriod(t *testing.T) {
	_, handler := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/batch/rankings",
		strings.NewReader(`{"period":"WEEKLY"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	var body struct {
		Results []models.BatchRunResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	require.Len(t, body.Results, 3)
	for _, r := range body.Results {
		assert.Equal(t, models.PeriodWeekly, r.Period)
	}
}

func TestTriggerBatchRejectsBadPeriod(t *testing.T) {
	_, handler := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/batch/rankings",
		strings.NewReader(`{"period":"HOURLY"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotFoundUsesEnvelope(t *testing.T) {
	_, handler := setupTestServer(t)

	rec, env := doRequest(t, handler, http.MethodGet, "/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeNotFound, env.Error.Code)
}

func TestMetricsEndpointExposed(t *testing.T) {
	_, handler := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
