// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package api

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/config"
)

func TestParseLeaderboardRequestDefaults(t *testing.T) {
	cfg := &config.APIConfig{DefaultPageSize: 50, MaxPageSize: 100}
	r := httptest.NewRequest("GET", "/api/v1/users/power?period=DAILY", nil)

	req, ve, err := ParseLeaderboardRequest(r, cfg)
	require.NoError(t, err)
	require.Nil(t, ve)
	assert.Equal(t, "DAILY", req.Period)
	assert.Equal(t, 50, req.Limit)
	assert.Empty(t, req.SortBy)
	assert.Empty(t, req.Cursor)
}

func TestParseLeaderboardRequestNonNumericLimit(t *testing.T) {
	cfg := &config.APIConfig{DefaultPageSize: 50, MaxPageSize: 100}
	r := httptest.NewRequest("GET", "/api/v1/users/power?period=DAILY&limit=ten", nil)

	_, ve, err := ParseLeaderboardRequest(r, cfg)
	require.Error(t, err)
	assert.Nil(t, ve)
}

func TestParseLeaderboardRequestValidationFailure(t *testing.T) {
	cfg := &config.APIConfig{DefaultPageSize: 50, MaxPageSize: 100}
	r := httptest.NewRequest("GET", "/api/v1/users/power?period=HOURLY", nil)

	_, ve, err := ParseLeaderboardRequest(r, cfg)
	require.NoError(t, err)
	require.NotNil(t, ve)
}

func TestParseBookListRequest(t *testing.T) {
	cfg := &config.APIConfig{DefaultPageSize: 50, MaxPageSize: 100}
	r := httptest.NewRequest("GET", "/api/v1/books?keyword=go&orderBy=rating&direction=DESC&limit=10", nil)

	req, ve, err := ParseBookListRequest(r, cfg)
	require.NoError(t, err)
	require.Nil(t, ve)
	assert.Equal(t, "go", req.Keyword)
	assert.Equal(t, "rating", req.OrderBy)
	assert.Equal(t, "DESC", req.Direction)
	assert.Equal(t, 10, req.Limit)
}

func TestParseTriggerBatchRequestEmptyBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/batch/rankings", nil)

	req, ve, err := ParseTriggerBatchRequest(r)
	require.NoError(t, err)
	require.Nil(t, ve)
	assert.Empty(t, req.Period)
	assert.True(t, req.ReferenceTime.IsZero())
}

func TestParseTriggerBatchRequestWithBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/batch/rankings",
		strings.NewReader(`{"period":"MONTHLY","referenceTime":"2026-08-30T12:00:00Z"}`))

	req, ve, err := ParseTriggerBatchRequest(r)
	require.NoError(t, err)
	require.Nil(t, ve)
	assert.Equal(t, "MONTHLY", req.Period)
	assert.Equal(t, 2026, req.ReferenceTime.Year())
}

func TestParseTriggerBatchRequestBadReferenceTime(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/batch/rankings",
		strings.NewReader(`{"referenceTime":"yesterday"}`))

	_, ve, err := ParseTriggerBatchRequest(r)
	require.Error(t, err)
	assert.Nil(t, ve)
}

func TestParseBookListRequestRejectsUnknownSort(t *testing.T) {
	cfg := &config.APIConfig{DefaultPageSize: 50, MaxPageSize: 100}
	r := httptest.NewRequest("GET", "/api/v1/books?orderBy=isbn", nil)

	_, ve, err := ParseBookListRequest(r, cfg)
	require.NoError(t, err)
	require.NotNil(t, ve)
}
