// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package database

import (
	"errors"
	"io"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/logging"
)

// Sentinel errors for the ranking engine. Callers classify behavior with
// errors.Is rather than matching message strings.
var (
	// ErrInvalidCursor marks a cursor or after value that does not parse
	// for the requested sort field. Mapped to a 400 client error.
	ErrInvalidCursor = errors.New("invalid cursor value")

	// ErrUnsupportedSort marks an unknown sort field or direction.
	// Mapped to a 400 client error.
	ErrUnsupportedSort = errors.New("unsupported sort field")

	// ErrAlreadyRan is returned by the snapshot replace when a guard row
	// already exists for (job, period, run date). The pipeline reports this
	// as a non-fatal skipped-duplicate, never as a failure.
	ErrAlreadyRan = errors.New("ranking job already ran for this period today")
)

// closeWithLog closes a resource and logs any error.
// Use this for cleanup operations where errors should be acknowledged but not fail the operation.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use this for cleanup operations in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
