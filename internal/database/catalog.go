// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/database/query"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/metrics"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/models"
)

// Book catalog sort fields accepted by the API.
const (
	BookSortTitle         = "title"
	BookSortPublishedDate = "publishedDate"
	BookSortRating        = "rating"
	BookSortReviewCount   = "reviewCount"
)

// BookQuery is a page request for the book catalog listing. It uses the same
// keyset pagination scheme as the leaderboards with the book id as tie-break.
type BookQuery struct {
	Keyword   string
	OrderBy   string // empty defaults to title
	Direction query.Direction
	Limit     int
	Cursor    string
	After     string
}

var bookSortColumns = map[string]string{
	BookSortTitle:         "title",
	BookSortPublishedDate: "published_date",
	BookSortRating:        "rating",
	BookSortReviewCount:   "review_count",
}

// NormalizeBookSort validates a catalog sort field, defaulting empty to
// title. Unknown fields return ErrUnsupportedSort.
func NormalizeBookSort(orderBy string) (string, error) {
	if orderBy == "" {
		return BookSortTitle, nil
	}
	if _, ok := bookSortColumns[orderBy]; !ok {
		return "", fmt.Errorf("%q: %w", orderBy, ErrUnsupportedSort)
	}
	return orderBy, nil
}

// BookCursor formats the cursor value for a returned book under the given
// sort field.
func BookCursor(orderBy string, b models.Book) string {
	switch orderBy {
	case BookSortPublishedDate:
		return b.PublishedDate.UTC().Format("2006-01-02")
	case BookSortRating:
		return strconv.FormatFloat(b.Rating, 'f', -1, 64)
	case BookSortReviewCount:
		return strconv.FormatInt(b.ReviewCount, 10)
	default:
		return b.Title
	}
}

func parseBookCursor(orderBy, cursor, after string) (interface{}, error) {
	if cursor == "" && after == "" {
		return nil, nil
	}
	if after == "" {
		return nil, fmt.Errorf("cursor and after must be provided together: %w", ErrInvalidCursor)
	}
	if _, err := uuid.Parse(after); err != nil {
		return nil, fmt.Errorf("after %q is not a valid id: %w", after, ErrInvalidCursor)
	}

	switch orderBy {
	case BookSortPublishedDate:
		t, err := time.Parse("2006-01-02", cursor)
		if err != nil {
			return nil, fmt.Errorf("cursor %q is not a valid date: %w", cursor, ErrInvalidCursor)
		}
		return t, nil
	case BookSortRating:
		v, err := strconv.ParseFloat(cursor, 64)
		if err != nil {
			return nil, fmt.Errorf("cursor %q is not a valid rating: %w", cursor, ErrInvalidCursor)
		}
		return v, nil
	case BookSortReviewCount:
		v, err := strconv.ParseInt(cursor, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cursor %q is not a valid review count: %w", cursor, ErrInvalidCursor)
		}
		return v, nil
	default:
		// Titles are arbitrary strings; presence of after is the only check
		if cursor == "" {
			return nil, fmt.Errorf("cursor and after must be provided together: %w", ErrInvalidCursor)
		}
		return cursor, nil
	}
}

// ListBooks returns one page of the live book catalog, optionally filtered
// by a case-insensitive keyword over title, author, and publisher.
func (db *DB) ListBooks(ctx context.Context, p BookQuery) ([]models.Book, bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	orderBy, err := NormalizeBookSort(p.OrderBy)
	if err != nil {
		return nil, false, err
	}
	sortCol := bookSortColumns[orderBy]

	if p.Direction == "" {
		p.Direction = query.Asc
	}

	wb := query.NewWhereBuilder().
		AddNotDeleted("").
		AddKeyword(p.Keyword)

	cursorVal, err := parseBookCursor(orderBy, p.Cursor, p.After)
	if err != nil {
		return nil, false, err
	}
	if cursorVal != nil {
		op := p.Direction.Operator()
		wb.AddClause(fmt.Sprintf(
			"(%s %s ? OR (%s = ? AND id %s CAST(? AS UUID)))",
			sortCol, op, sortCol, op,
		), cursorVal, cursorVal, p.After)
	}

	where, args := wb.Build()
	// CAST id to VARCHAR because DuckDB's Go driver returns UUID columns
	// as raw bytes, not canonical UUID text
	q := fmt.Sprintf(`
		SELECT CAST(id AS VARCHAR), title, author, COALESCE(publisher, ''),
		       COALESCE(published_date, DATE '1970-01-01'),
		       COALESCE(isbn, ''), rating, review_count, created_at
		FROM books
		WHERE %s
		ORDER BY %s %s, id %s
		LIMIT ?`, where, sortCol, p.Direction, p.Direction)
	args = append(args, p.Limit+1)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, q, args...)
	metrics.RecordDBQuery("select", "books", time.Since(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query books: %w", err)
	}
	defer closeWithLog(rows, "book rows")

	var books []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Publisher,
			&b.PublishedDate, &b.ISBN, &b.Rating, &b.ReviewCount, &b.CreatedAt); err != nil {
			return nil, false, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	return trimPage(books, p.Limit)
}

// CountBooks returns the number of live books matching the keyword filter.
func (db *DB) CountBooks(ctx context.Context, keyword string) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := query.NewWhereBuilder().
		AddNotDeleted("").
		AddKeyword(keyword).
		Build()

	var count int64
	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM books WHERE %s", where), args...).Scan(&count)
	metrics.RecordDBQuery("count", "books", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return count, nil
}
