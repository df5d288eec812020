// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/config"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/validation"
)

// LeaderboardRequest carries the validated query parameters of a
// leaderboard page request.
type LeaderboardRequest struct {
	Period    string `validate:"required,period"`
	SortBy    string `validate:"omitempty,oneof=rank score createdAt"`
	Direction string `validate:"omitempty,oneof=ASC DESC asc desc"`
	Limit     int    `validate:"min=1,max=100"`
	Cursor    string
	After     string
}

// BookListRequest carries the validated query parameters of a book catalog
// page request.
type BookListRequest struct {
	Keyword   string
	OrderBy   string `validate:"omitempty,oneof=title publishedDate rating reviewCount"`
	Direction string `validate:"omitempty,oneof=ASC DESC asc desc"`
	Limit     int    `validate:"min=1,max=100"`
	Cursor    string
	After     string
}

// parseLimit reads the limit parameter, applying the configured default for
// a missing value. Non-numeric limits surface as an error before struct
// validation bounds the range.
func parseLimit(r *http.Request, cfg *config.APIConfig) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return cfg.DefaultPageSize, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("limit %q is not a number", raw)
	}
	return limit, nil
}

// ParseLeaderboardRequest extracts and validates leaderboard page
// parameters. The second return carries field-level validation errors, the
// third a parse failure; at most one is non-nil.
func ParseLeaderboardRequest(r *http.Request, cfg *config.APIConfig) (LeaderboardRequest, *validation.RequestValidationError, error) {
	q := r.URL.Query()

	limit, err := parseLimit(r, cfg)
	if err != nil {
		return LeaderboardRequest{}, nil, err
	}

	req := LeaderboardRequest{
		Period:    q.Get("period"),
		SortBy:    q.Get("orderBy"),
		Direction: q.Get("direction"),
		Limit:     limit,
		Cursor:    q.Get("cursor"),
		After:     q.Get("after"),
	}

	if ve := validation.ValidateStruct(&req); ve != nil {
		return LeaderboardRequest{}, ve, nil
	}
	return req, nil, nil
}

// TriggerBatchRequest is the optional JSON body of the manual batch trigger.
type TriggerBatchRequest struct {
	Period        string    `json:"period" validate:"omitempty,period"`
	ReferenceTime time.Time `json:"-"`
}

// triggerBatchBody is the raw wire shape before referenceTime parsing.
type triggerBatchBody struct {
	Period        string `json:"period"`
	ReferenceTime string `json:"referenceTime"`
}

// ParseTriggerBatchRequest reads the optional trigger body. An absent or
// empty body means a full run at the current time.
func ParseTriggerBatchRequest(r *http.Request) (TriggerBatchRequest, *validation.RequestValidationError, error) {
	var body triggerBatchBody
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return TriggerBatchRequest{}, nil, fmt.Errorf("request body is not valid JSON: %w", err)
		}
	}

	req := TriggerBatchRequest{Period: body.Period}
	if body.ReferenceTime != "" {
		ref, err := time.Parse(time.RFC3339, body.ReferenceTime)
		if err != nil {
			return TriggerBatchRequest{}, nil, fmt.Errorf("referenceTime %q is not RFC3339", body.ReferenceTime)
		}
		req.ReferenceTime = ref
	}

	if ve := validation.ValidateStruct(&req); ve != nil {
		return TriggerBatchRequest{}, ve, nil
	}
	return req, nil, nil
}

// ParseBookListRequest extracts and validates book catalog page parameters.
func ParseBookListRequest(r *http.Request, cfg *config.APIConfig) (BookListRequest, *validation.RequestValidationError, error) {
	q := r.URL.Query()

	limit, err := parseLimit(r, cfg)
	if err != nil {
		return BookListRequest{}, nil, err
	}

	req := BookListRequest{
		Keyword:   q.Get("keyword"),
		OrderBy:   q.Get("orderBy"),
		Direction: q.Get("direction"),
		Limit:     limit,
		Cursor:    q.Get("cursor"),
		After:     q.Get("after"),
	}

	if ve := validation.ValidateStruct(&req); ve != nil {
		return BookListRequest{}, ve, nil
	}
	return req, nil, nil
}
