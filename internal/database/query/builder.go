// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

// Package query provides SQL query building utilities for the database package.
// It reduces code duplication and provides type-safe query construction.
package query

import (
	"fmt"
	"strings"
	"time"
)

// Direction is the sort direction for ordered queries.
type Direction string

// Sort directions.
const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection validates a request direction string. Empty defaults to ASC.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(s) {
	case "", "ASC":
		return Asc, nil
	case "DESC":
		return Desc, nil
	default:
		return "", fmt.Errorf("unsupported sort direction %q", s)
	}
}

// Operator returns the keyset comparison operator for the direction:
// ">" when ascending, "<" when descending.
func (d Direction) Operator() string {
	if d == Desc {
		return "<"
	}
	return ">"
}

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
// It ensures consistent parameter handling and reduces SQL injection risks.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("period", "DAILY")
//	wb.AddKeysetSeek("rank", "created_at", query.Asc, 2, after)
//	whereClause, args := wb.Build()
//	// period = ? AND (rank > ? OR (rank = ? AND created_at > ?))
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
// This is useful for custom conditions not covered by helper methods.
//
// Parameters:
//   - clause: SQL condition fragment (e.g., "rating >= ?")
//   - args: Arguments to bind to placeholders in the clause
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals adds an equality filter for a single column.
func (wb *WhereBuilder) AddEquals(column string, value interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, column+" = ?")
	wb.args = append(wb.args, value)
	return wb
}

// AddTimeRange adds half-open [start, end) bounds on a timestamp column.
// Nil bounds are skipped, so an ALL_TIME window adds no predicate.
//
// Generates:
//   - "<column> >= ?" if start is non-nil
//   - "<column> < ?" if end is non-nil
func (wb *WhereBuilder) AddTimeRange(column string, start, end *time.Time) *WhereBuilder {
	if start != nil {
		wb.clauses = append(wb.clauses, column+" >= ?")
		wb.args = append(wb.args, *start)
	}
	if end != nil {
		wb.clauses = append(wb.clauses, column+" < ?")
		wb.args = append(wb.args, *end)
	}
	return wb
}

// AddNotDeleted excludes soft-deleted rows for the given table alias.
// Generates "<alias>.is_deleted = FALSE" (or "is_deleted = FALSE" for "").
func (wb *WhereBuilder) AddNotDeleted(alias string) *WhereBuilder {
	column := "is_deleted"
	if alias != "" {
		column = alias + ".is_deleted"
	}
	wb.clauses = append(wb.clauses, column+" = FALSE")
	return wb
}

// AddKeyword adds a case-insensitive keyword match over title, author, and
// publisher for the book catalog listing. Empty keyword is skipped.
func (wb *WhereBuilder) AddKeyword(keyword string) *WhereBuilder {
	if keyword == "" {
		return wb
	}
	pattern := "%" + strings.ToLower(keyword) + "%"
	wb.clauses = append(wb.clauses,
		"(LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(publisher) LIKE ?)")
	wb.args = append(wb.args, pattern, pattern, pattern)
	return wb
}

// AddKeysetSeek adds the keyset pagination predicate for resuming after a
// previously returned row:
//
//	(sortCol >ᵃ cursor) OR (sortCol = cursor AND tiebreakCol >ᵃ after)
//
// where >ᵃ is ">" for ascending and "<" for descending direction. First-page
// requests must skip this call entirely.
func (wb *WhereBuilder) AddKeysetSeek(sortCol, tiebreakCol string, dir Direction, cursor, after interface{}) *WhereBuilder {
	op := dir.Operator()
	wb.clauses = append(wb.clauses, fmt.Sprintf(
		"(%s %s ? OR (%s = ? AND %s %s ?))",
		sortCol, op, sortCol, tiebreakCol, op,
	))
	wb.args = append(wb.args, cursor, cursor, after)
	return wb
}

// AddIn adds an IN filter for a column.
// Generates "<column> IN (?, ?, ...)" with proper parameterization.
// Empty value slices are skipped.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) > 0 {
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = "?"
			wb.args = append(wb.args, v)
		}
		wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	}
	return wb
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were added.
//
// Returns:
//   - string: Complete WHERE clause (without "WHERE" keyword)
//   - []interface{}: Arguments to bind to placeholders
//
// Example:
//
//	whereClause, args := wb.Build()
//	query := fmt.Sprintf("SELECT * FROM popular_books WHERE %s", whereClause)
//	db.Query(query, args...)
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
// Useful for direct SQL construction without manual prefix addition.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}
