// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/models"
)

type ratingKey struct {
	user, movie int
}

// UpsertRatings records ratings, replacing any earlier rating by the same
// user for the same movie. Within one call the last entry for a pair wins.
// A value outside [0.5, 5.0] rejects the whole call.
func (db *DB) UpsertRatings(ctx context.Context, ratings []models.Rating) (int, error) {
	if len(ratings) == 0 {
		return 0, nil
	}

	index := make(map[ratingKey]int, len(ratings))
	unique := make([]models.Rating, 0, len(ratings))
	for _, r := range ratings {
		if r.Value < models.MinRatingValue || r.Value > models.MaxRatingValue {
			return 0, fmt.Errorf("%w: user %d movie %d value %.2f", ErrInvalidRating, r.UserID, r.MovieID, r.Value)
		}
		if r.RatedAt.IsZero() {
			r.RatedAt = time.Now()
		}
		r.RatedAt = r.RatedAt.UTC()

		k := ratingKey{r.UserID, r.MovieID}
		if pos, ok := index[k]; ok {
			unique[pos] = r
			continue
		}
		index[k] = len(unique)
		unique = append(unique, r)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	insert := bulkInsert{
		prefix:  "INSERT INTO ratings (user_id, movie_id, rating, rated_at)",
		suffix:  "ON CONFLICT (user_id, movie_id) DO UPDATE SET rating = EXCLUDED.rating, rated_at = EXCLUDED.rated_at",
		columns: 4,
		rows:    len(unique),
		args: func(i int) []any {
			r := &unique[i]
			return []any{r.UserID, r.MovieID, r.Value, r.RatedAt}
		},
	}
	if err := insert.exec(ctx, tx, db.batchSize); err != nil {
		return 0, rollback(tx, fmt.Errorf("failed to upsert ratings: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit ratings: %w", err)
	}
	return len(unique), nil
}

// AllRatings returns every rating ordered by user then movie.
func (db *DB) AllRatings(ctx context.Context) ([]models.Rating, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, movie_id, rating, rated_at
		FROM ratings
		ORDER BY user_id, movie_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer closeRows(rows)

	var ratings []models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.UserID, &r.MovieID, &r.Value, &r.RatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ratings: %w", err)
	}
	return ratings, nil
}

// GetUserRatings returns one user's ratings, most recent first with ties
// broken by movie ID ascending.
func (db *DB) GetUserRatings(ctx context.Context, userID int) ([]models.Rating, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, movie_id, rating, rated_at
		FROM ratings
		WHERE user_id = ?
		ORDER BY rated_at DESC, movie_id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user ratings: %w", err)
	}
	defer closeRows(rows)

	var ratings []models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.UserID, &r.MovieID, &r.Value, &r.RatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user ratings: %w", err)
	}
	return ratings, nil
}

// ListUserRatings returns one page of a user's rating history joined with
// the catalog, in GetUserRatings order. An unknown user yields an empty
// page.
func (db *DB) ListUserRatings(ctx context.Context, userID, limit, offset int) ([]models.UserRating, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT m.id, m.title, m.year, m.genres, m.overview, m.poster_path, r.rating, r.rated_at
		FROM ratings r
		JOIN movies m ON m.id = r.movie_id
		WHERE r.user_id = ?
		ORDER BY r.rated_at DESC, r.movie_id ASC
		LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		metrics.RecordDBQuery("list_user_ratings", time.Since(start), err)
		return nil, fmt.Errorf("failed to query rating history: %w", err)
	}
	defer closeRows(rows)

	page := []models.UserRating{}
	for rows.Next() {
		var (
			ur       models.UserRating
			year     sql.NullInt64
			genres   string
			overview sql.NullString
			poster   sql.NullString
		)
		if err := rows.Scan(&ur.ID, &ur.Title, &year, &genres, &overview, &poster, &ur.Rating, &ur.RatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating history: %w", err)
		}
		ur.Year = intPtrFromNull(year)
		ur.Genres = models.SplitGenres(genres)
		ur.Overview = overview.String
		ur.PosterPath = poster.String
		page = append(page, ur)
	}
	err = rows.Err()
	metrics.RecordDBQuery("list_user_ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate rating history: %w", err)
	}
	return page, nil
}

// MovieExists reports whether id is in the catalog.
func (db *DB) MovieExists(ctx context.Context, id int) (bool, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies WHERE id = ?", id).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check movie: %w", err)
	}
	return n > 0, nil
}
