// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

/*
rankings.go - Keyset-Paginated Leaderboard Reads

Leaderboard pages resume from a (cursor, after) pair: cursor is the sort
field value of the last row already seen, after is that row's snapshot id.
The seek predicate is

	(sortCol >ᵃ cursor) OR (sortCol = cursor AND id >ᵃ after)

with >ᵃ flipped to < for descending order. The snapshot id is the universal
tie-break because every row in one snapshot shares the same created_at.

Queries fetch limit+1 rows; the extra row only signals hasNext and is
trimmed before returning.
*/

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

// Leaderboard sort fields accepted by the API.
const (
	SortByRank      = "rank"
	SortByScore     = "score"
	SortByCreatedAt = "createdAt"
)

// LeaderboardQuery is a validated-on-use page request for one leaderboard.
type LeaderboardQuery struct {
	Period    models.PeriodType
	SortBy    string // empty defaults to rank
	Direction query.Direction
	Limit     int
	Cursor    string // sort field value of the last row seen, empty for first page
	After     string // snapshot row id of the last row seen
}

// NormalizeLeaderboardSort validates a sort field name, defaulting empty to
// rank. Unknown fields return ErrUnsupportedSort.
func NormalizeLeaderboardSort(sortBy string) (string, error) {
	switch sortBy {
	case "":
		return SortByRank, nil
	case SortByRank, SortByScore, SortByCreatedAt:
		return sortBy, nil
	default:
		return "", fmt.Errorf("%q: %w", sortBy, ErrUnsupportedSort)
	}
}

// EntryCursor formats the cursor value for a returned row under the given
// sort field. The caller pairs it with the row's id as the after value.
func EntryCursor(sortBy string, rank int, score float64, createdAt time.Time) string {
	switch sortBy {
	case SortByScore:
		return strconv.FormatFloat(score, 'f', -1, 64)
	case SortByCreatedAt:
		return createdAt.UTC().Format(time.RFC3339Nano)
	default:
		return strconv.Itoa(rank)
	}
}

// parseCursor converts the request cursor string to the sort field's native
// type for SQL binding. Both cursor and after must be present together;
// any parse failure maps to ErrInvalidCursor.
func parseCursor(sortBy, cursor, after string) (interface{}, error) {
	if cursor == "" && after == "" {
		return nil, nil
	}
	if cursor == "" || after == "" {
		return nil, fmt.Errorf("cursor and after must be provided together: %w", ErrInvalidCursor)
	}
	if _, err := uuid.Parse(after); err != nil {
		return nil, fmt.Errorf("after %q is not a valid id: %w", after, ErrInvalidCursor)
	}

	switch sortBy {
	case SortByScore:
		v, err := strconv.ParseFloat(cursor, 64)
		if err != nil {
			return nil, fmt.Errorf("cursor %q is not a valid score: %w", cursor, ErrInvalidCursor)
		}
		return v, nil
	case SortByCreatedAt:
		t, err := time.Parse(time.RFC3339Nano, cursor)
		if err != nil {
			return nil, fmt.Errorf("cursor %q is not a valid timestamp: %w", cursor, ErrInvalidCursor)
		}
		return t, nil
	default:
		v, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, fmt.Errorf("cursor %q is not a valid rank: %w", cursor, ErrInvalidCursor)
		}
		return v, nil
	}
}

// buildLeaderboardWhere composes the period filter and, for resumed pages,
// the keyset seek predicate against the snapshot table alias.
func buildLeaderboardWhere(alias string, p LeaderboardQuery) (string, []interface{}, string, error) {
	sortBy, err := NormalizeLeaderboardSort(p.SortBy)
	if err != nil {
		return "", nil, "", err
	}

	sortCols := map[string]string{
		SortByRank:      alias + ".rank",
		SortByScore:     alias + ".score",
		SortByCreatedAt: alias + ".created_at",
	}
	sortCol := sortCols[sortBy]

	if p.Direction == "" {
		p.Direction = query.Asc
	}

	wb := query.NewWhereBuilder().AddEquals(alias+".period", string(p.Period))

	cursorVal, err := parseCursor(sortBy, p.Cursor, p.After)
	if err != nil {
		return "", nil, "", err
	}
	if cursorVal != nil {
		op := p.Direction.Operator()
		wb.AddClause(fmt.Sprintf(
			"(%s %s ? OR (%s = ? AND %s.id %s CAST(? AS UUID)))",
			sortCol, op, sortCol, alias, op,
		), cursorVal, cursorVal, p.After)
	}

	where, args := wb.Build()
	orderBy := fmt.Sprintf("ORDER BY %s %s, %s.id %s", sortCol, p.Direction, alias, p.Direction)
	return where, args, orderBy, nil
}

// GetPopularBooks returns one page of the popular-books leaderboard with
// book display fields joined in. The second return reports hasNext.
func (db *DB) GetPopularBooks(ctx context.Context, p LeaderboardQuery) ([]models.PopularBookEntry, bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args, orderBy, err := buildLeaderboardWhere("pb", p)
	if err != nil {
		return nil, false, err
	}

	// CAST ids to VARCHAR because DuckDB's Go driver returns UUID columns
	// as raw bytes, not canonical UUID text
	q := fmt.Sprintf(`
		SELECT CAST(pb.id AS VARCHAR), CAST(pb.book_id AS VARCHAR), b.title, b.author, pb.period, pb.rank,
		       pb.score, pb.review_count, pb.rating, pb.created_at
		FROM popular_books pb
		JOIN books b ON b.id = pb.book_id
		WHERE %s
		%s
		LIMIT ?`, where, orderBy)
	args = append(args, p.Limit+1)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, q, args...)
	metrics.RecordDBQuery("select", "popular_books", time.Since(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query popular books: %w", err)
	}
	defer closeWithLog(rows, "popular books rows")

	var entries []models.PopularBookEntry
	for rows.Next() {
		var e models.PopularBookEntry
		if err := rows.Scan(&e.ID, &e.BookID, &e.Title, &e.Author, &e.Period,
			&e.Rank, &e.Score, &e.ReviewCount, &e.Rating, &e.CreatedAt); err != nil {
			return nil, false, fmt.Errorf("failed to scan popular book entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	metrics.RecordLeaderboardQuery(string(models.LeaderboardPopularBooks), string(p.Period))
	return trimPage(entries, p.Limit)
}

// GetPopularReviews returns one page of the popular-reviews leaderboard with
// review, book, and author display fields joined in.
func (db *DB) GetPopularReviews(ctx context.Context, p LeaderboardQuery) ([]models.PopularReviewEntry, bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args, orderBy, err := buildLeaderboardWhere("pr", p)
	if err != nil {
		return nil, false, err
	}

	q := fmt.Sprintf(`
		SELECT CAST(pr.id AS VARCHAR), CAST(pr.review_id AS VARCHAR), CAST(r.book_id AS VARCHAR), b.title, u.nickname,
		       COALESCE(r.content, ''), r.rating, pr.period, pr.rank, pr.score,
		       pr.like_count, pr.comment_count, r.created_at, pr.created_at
		FROM popular_reviews pr
		JOIN reviews r ON r.id = pr.review_id
		JOIN books b ON b.id = r.book_id
		JOIN users u ON u.id = r.user_id
		WHERE %s
		%s
		LIMIT ?`, where, orderBy)
	args = append(args, p.Limit+1)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, q, args...)
	metrics.RecordDBQuery("select", "popular_reviews", time.Since(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query popular reviews: %w", err)
	}
	defer closeWithLog(rows, "popular reviews rows")

	var entries []models.PopularReviewEntry
	for rows.Next() {
		var e models.PopularReviewEntry
		if err := rows.Scan(&e.ID, &e.ReviewID, &e.BookID, &e.BookTitle, &e.UserNickname,
			&e.ReviewContent, &e.ReviewRating, &e.Period, &e.Rank, &e.Score,
			&e.LikeCount, &e.CommentCount, &e.ReviewCreated, &e.CreatedAt); err != nil {
			return nil, false, fmt.Errorf("failed to scan popular review entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	metrics.RecordLeaderboardQuery(string(models.LeaderboardPopularReviews), string(p.Period))
	return trimPage(entries, p.Limit)
}

// GetPowerUsers returns one page of the power-users leaderboard with the
// user's nickname joined in.
func (db *DB) GetPowerUsers(ctx context.Context, p LeaderboardQuery) ([]models.PowerUserEntry, bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args, orderBy, err := buildLeaderboardWhere("pu", p)
	if err != nil {
		return nil, false, err
	}

	q := fmt.Sprintf(`
		SELECT CAST(pu.id AS VARCHAR), CAST(pu.user_id AS VARCHAR), u.nickname, pu.period, pu.rank, pu.score,
		       pu.review_score_sum, pu.like_count, pu.comment_count, pu.created_at
		FROM power_users pu
		JOIN users u ON u.id = pu.user_id
		WHERE %s
		%s
		LIMIT ?`, where, orderBy)
	args = append(args, p.Limit+1)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, q, args...)
	metrics.RecordDBQuery("select", "power_users", time.Since(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query power users: %w", err)
	}
	defer closeWithLog(rows, "power users rows")

	var entries []models.PowerUserEntry
	for rows.Next() {
		var e models.PowerUserEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Nickname, &e.Period, &e.Rank,
			&e.Score, &e.ReviewScoreSum, &e.LikeCount, &e.CommentCount, &e.CreatedAt); err != nil {
			return nil, false, fmt.Errorf("failed to scan power user entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	metrics.RecordLeaderboardQuery(string(models.LeaderboardPowerUsers), string(p.Period))
	return trimPage(entries, p.Limit)
}

// CountSnapshotEntries returns the total row count for a leaderboard period,
// reported as totalElements alongside every page.
func (db *DB) CountSnapshotEntries(ctx context.Context, lb models.Leaderboard, period models.PeriodType) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var count int64
	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE period = ?", string(lb)),
		string(period)).Scan(&count)
	metrics.RecordDBQuery("count", string(lb), time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s entries: %w", lb, err)
	}
	return count, nil
}

// trimPage drops the hasNext probe row fetched beyond the limit.
func trimPage[T any](entries []T, limit int) ([]T, bool, error) {
	if len(entries) > limit {
		return entries[:limit], true, nil
	}
	return entries, false, nil
}
