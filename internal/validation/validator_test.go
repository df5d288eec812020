// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leaderboardRequest struct {
	Period string `validate:"required,period"`
	Limit  int    `validate:"min=1,max=100"`
	After  string `validate:"omitempty,uuid"`
}

func TestValidateStructPasses(t *testing.T) {
	req := leaderboardRequest{
		Period: "DAILY",
		Limit:  50,
	}
	assert.Nil(t, ValidateStruct(&req))
}

func TestValidateStructPeriodTag(t *testing.T) {
	valid := []string{"DAILY", "WEEKLY", "MONTHLY", "ALL_TIME"}
	for _, p := range valid {
		req := leaderboardRequest{Period: p, Limit: 1}
		assert.Nil(t, ValidateStruct(&req), "period %s should be valid", p)
	}

	invalid := []string{"daily", "YEARLY", "all_time", "HOURLY", ""}
	for _, p := range invalid {
		req := leaderboardRequest{Period: p, Limit: 1}
		assert.NotNil(t, ValidateStruct(&req), "period %q should be rejected", p)
	}
}

func TestValidateStructLimitBounds(t *testing.T) {
	req := leaderboardRequest{Period: "WEEKLY", Limit: 0}
	verr := ValidateStruct(&req)
	require.NotNil(t, verr)
	assert.Contains(t, verr.Error(), "Limit")

	req.Limit = 101
	verr = ValidateStruct(&req)
	require.NotNil(t, verr)
	assert.Contains(t, verr.Error(), "at most 100")
}

func TestValidateStructUUIDTag(t *testing.T) {
	req := leaderboardRequest{
		Period: "MONTHLY",
		Limit:  10,
		After:  "not-a-uuid",
	}
	verr := ValidateStruct(&req)
	require.NotNil(t, verr)
	assert.Contains(t, verr.Error(), "valid UUID")

	req.After = "6f1c3f2a-58a4-4f0e-9c3b-2d7a10f4e8b1"
	assert.Nil(t, ValidateStruct(&req))
}

func TestToAPIErrorSingleField(t *testing.T) {
	req := leaderboardRequest{Period: "BAD", Limit: 10}
	verr := ValidateStruct(&req)
	require.NotNil(t, verr)

	apiErr := verr.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Message, "DAILY, WEEKLY, MONTHLY, ALL_TIME")
	assert.Equal(t, "Period", apiErr.Details["field"])
}

func TestToAPIErrorMultipleFields(t *testing.T) {
	req := leaderboardRequest{Period: "BAD", Limit: 0}
	verr := ValidateStruct(&req)
	require.NotNil(t, verr)
	require.Len(t, verr.Errors(), 2)

	apiErr := verr.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	require.True(t, ok)
	assert.Len(t, fields, 2)
}

func TestGetValidatorIsSingleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}
