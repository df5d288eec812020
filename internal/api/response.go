// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

// Package api provides HTTP routing and handlers for the leaderboard and
// catalog read endpoints, the manual batch trigger, and health reporting.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/database"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/logging"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/models"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/validation"
)

// Response status values.
const (
	statusSuccess = "success"
	statusError   = "error"
)

// Error codes for API responses.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInvalidCursor   = "INVALID_CURSOR"
	ErrCodeUnsupportedSort = "UNSUPPORTED_SORT"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeDatabase        = "DATABASE_ERROR"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// errorMapping pairs a sentinel error with its transport representation.
type errorMapping struct {
	target error
	status int
	code   string
}

// errorMappings is the single table from error kind to HTTP status and code.
// Unmatched errors fall through to 500 DATABASE_ERROR via DatabaseError.
var errorMappings = []errorMapping{
	{database.ErrInvalidCursor, http.StatusBadRequest, ErrCodeInvalidCursor},
	{database.ErrUnsupportedSort, http.StatusBadRequest, ErrCodeUnsupportedSort},
}

// ResponseWriter writes responses in the standard envelope.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter creates a response writer for one request.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r, startTime: time.Now()}
}

// Success writes a 200 response with data in the envelope.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.writeJSON(http.StatusOK, models.APIResponse{
		Status:   statusSuccess,
		Data:     data,
		Metadata: rw.metadata(),
	})
}

// Error writes an error response with the given status and code.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, code, message, nil)
}

// ErrorWithDetails writes an error response with structured details.
func (rw *ResponseWriter) ErrorWithDetails(statusCode int, code, message string, details map[string]interface{}) {
	rw.writeJSON(statusCode, models.APIResponse{
		Status:   statusError,
		Metadata: rw.metadata(),
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// MappedError classifies err through the error mapping table and writes the
// matching client error, falling back to a 500 database error for anything
// unmatched.
func (rw *ResponseWriter) MappedError(err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			rw.Error(m.status, m.code, err.Error())
			return
		}
	}
	rw.DatabaseError(err)
}

// ValidationError writes a 400 response from request validation failures.
func (rw *ResponseWriter) ValidationError(ve *validation.RequestValidationError) {
	apiErr := ve.ToAPIError()
	rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}

// BadRequest writes a 400 validation error with a plain message.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeValidation, message)
}

// NotFound writes a 404 error.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// DatabaseError writes a 500 error for storage failures. The underlying
// error is logged, never sent to the client.
func (rw *ResponseWriter) DatabaseError(err error) {
	logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Database error")
	rw.Error(http.StatusInternalServerError, ErrCodeDatabase, "A database error occurred")
}

// InternalError writes a 500 error.
func (rw *ResponseWriter) InternalError(message string) {
	rw.Error(http.StatusInternalServerError, ErrCodeInternal, message)
}

// ServiceUnavailable writes a 503 error.
func (rw *ResponseWriter) ServiceUnavailable(message string) {
	rw.Error(http.StatusServiceUnavailable, ErrCodeInternal, message)
}

func (rw *ResponseWriter) metadata() models.Metadata {
	return models.Metadata{
		Timestamp:   time.Now().UTC(),
		QueryTimeMS: time.Since(rw.startTime).Milliseconds(),
	}
}

func (rw *ResponseWriter) writeJSON(statusCode int, response models.APIResponse) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)
	if err := json.NewEncoder(rw.w).Encode(response); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
