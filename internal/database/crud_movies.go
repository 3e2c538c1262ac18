// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/cinerec/internal/models"
)

// UpsertMovies inserts or updates catalog entries. An empty overview or
// poster path never clears a value that is already stored. Within one
// call the last entry for an ID wins.
func (db *DB) UpsertMovies(ctx context.Context, movies []models.Movie) (int, error) {
	if len(movies) == 0 {
		return 0, nil
	}

	index := make(map[int]int, len(movies))
	unique := make([]models.Movie, 0, len(movies))
	for i := range movies {
		if movies[i].Title == "" {
			return 0, fmt.Errorf("movie %d: title is required", movies[i].ID)
		}
		if pos, ok := index[movies[i].ID]; ok {
			unique[pos] = movies[i]
			continue
		}
		index[movies[i].ID] = len(unique)
		unique = append(unique, movies[i])
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	insert := bulkInsert{
		prefix:  "INSERT INTO movies (id, title, year, genres, overview, poster_path)",
		columns: 6,
		rows:    len(unique),
		suffix: `ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			year = EXCLUDED.year,
			genres = EXCLUDED.genres,
			overview = COALESCE(EXCLUDED.overview, overview),
			poster_path = COALESCE(EXCLUDED.poster_path, poster_path)`,
		args: func(i int) []any {
			m := &unique[i]
			return []any{m.ID, m.Title, nullableInt(m.Year), m.GenreString(), nullableString(m.Overview), nullableString(m.PosterPath)}
		},
	}
	if err := insert.exec(ctx, tx, db.batchSize); err != nil {
		return 0, rollback(tx, fmt.Errorf("failed to upsert movies: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit movies: %w", err)
	}
	return len(unique), nil
}

// AllMovies returns the full catalog ordered by ID.
func (db *DB) AllMovies(ctx context.Context) ([]models.Movie, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, title, year, genres, overview, poster_path
		FROM movies
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer closeRows(rows)

	var movies []models.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movies: %w", err)
	}
	return movies, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (models.Movie, error) {
	var (
		m        models.Movie
		year     sql.NullInt64
		genres   string
		overview sql.NullString
		poster   sql.NullString
	)
	if err := row.Scan(&m.ID, &m.Title, &year, &genres, &overview, &poster); err != nil {
		return m, fmt.Errorf("failed to scan movie: %w", err)
	}
	m.Year = intPtrFromNull(year)
	m.Genres = models.SplitGenres(genres)
	m.Overview = overview.String
	m.PosterPath = poster.String
	return m, nil
}
