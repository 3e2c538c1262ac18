// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tomtom215/cinerec/internal/models"
)

const movieWithStatsColumns = `m.id, m.title, m.year, m.genres, m.overview, m.poster_path,
	s.avg_rating, s.rating_count`

func scanMovieWithStats(row rowScanner, extra ...any) (models.MovieWithStats, error) {
	var (
		out      models.MovieWithStats
		year     sql.NullInt64
		genres   string
		overview sql.NullString
		poster   sql.NullString
		avg      sql.NullFloat64
		count    sql.NullInt64
	)
	dest := append([]any{&out.ID, &out.Title, &year, &genres, &overview, &poster, &avg, &count}, extra...)
	if err := row.Scan(dest...); err != nil {
		return out, fmt.Errorf("failed to scan movie: %w", err)
	}
	out.Year = intPtrFromNull(year)
	out.Genres = models.SplitGenres(genres)
	out.Overview = overview.String
	out.PosterPath = poster.String
	out.AverageRating = floatPtrFromNull(avg)
	out.RatingCount = intPtrFromNull(count)
	return out, nil
}

// GetMovie returns a movie with its statistics, or nil when the ID is not
// in the catalog. Stats fields are nil for a movie nobody has rated.
func (db *DB) GetMovie(ctx context.Context, id int) (*models.MovieWithStats, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+movieWithStatsColumns+`
		FROM movies m
		LEFT JOIN movie_stats s ON s.movie_id = m.id
		WHERE m.id = ?
		LIMIT 1`, id)
	m, err := scanMovieWithStats(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListPopularCandidates returns rated movies with more than minCount
// ratings, ordered by ID. Ranking is left to the caller.
func (db *DB) ListPopularCandidates(ctx context.Context, minCount int) ([]models.MovieWithStats, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+movieWithStatsColumns+`
		FROM movies m
		JOIN movie_stats s ON s.movie_id = m.id
		WHERE s.rating_count > ?
		ORDER BY m.id`, minCount)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular candidates: %w", err)
	}
	defer closeRows(rows)
	return collectMovies(rows)
}

// SearchMovies matches query case-insensitively as a substring of the
// title or the genre string. Results are ordered by rating count then
// average rating, both descending with missing stats last, then by ID.
// An empty query matches nothing.
func (db *DB) SearchMovies(ctx context.Context, query string, limit int) ([]models.MovieWithStats, error) {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return []models.MovieWithStats{}, nil
	}
	pattern := "%" + escapeLike(query) + "%"

	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+movieWithStatsColumns+`
		FROM movies m
		LEFT JOIN movie_stats s ON s.movie_id = m.id
		WHERE m.title ILIKE ? ESCAPE '\' OR m.genres ILIKE ? ESCAPE '\'
		ORDER BY s.rating_count DESC NULLS LAST, s.avg_rating DESC NULLS LAST, m.id ASC
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	defer closeRows(rows)
	return collectMovies(rows)
}

// GetSimilarMovies returns the stored neighbors of movieID for one method,
// highest score first with ties broken by target ID.
func (db *DB) GetSimilarMovies(ctx context.Context, movieID int, method models.SimilarityMethod, limit int) ([]models.SimilarMovie, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	if limit <= 0 {
		return []models.SimilarMovie{}, nil
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+movieWithStatsColumns+`, e.similarity_score
		FROM movie_similarity e
		JOIN movies m ON m.id = e.movie_id2
		LEFT JOIN movie_stats s ON s.movie_id = m.id
		WHERE e.movie_id1 = ? AND e.method = ?
		ORDER BY e.similarity_score DESC, e.movie_id2 ASC
		LIMIT ?`, movieID, string(method), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar movies: %w", err)
	}
	defer closeRows(rows)

	out := []models.SimilarMovie{}
	for rows.Next() {
		var score float64
		m, err := scanMovieWithStats(rows, &score)
		if err != nil {
			return nil, err
		}
		out = append(out, models.SimilarMovie{MovieWithStats: m, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate similar movies: %w", err)
	}
	return out, nil
}

// GetUserProfile returns the stored profile record, or nil when the user
// has none.
func (db *DB) GetUserProfile(ctx context.Context, userID int) (*models.UserProfileRecord, error) {
	var r models.UserProfileRecord
	err := db.conn.QueryRowContext(ctx, `
		SELECT user_id, favorite_genres, avg_rating, rating_count, rating_variance
		FROM user_profiles
		WHERE user_id = ?
		LIMIT 1`, userID).Scan(&r.UserID, &r.FavoriteGenres, &r.AvgRating, &r.RatingCount, &r.RatingVariance)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user profile: %w", err)
	}
	return &r, nil
}

// ListGenres returns every genre tag with the number of movies carrying
// it, most common first.
func (db *DB) ListGenres(ctx context.Context) ([]models.GenreCount, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT genre, COUNT(*) AS movie_count
		FROM (
			SELECT DISTINCT id, trim(tag) AS genre
			FROM (SELECT id, UNNEST(string_split(genres, '|')) AS tag FROM movies)
		)
		WHERE genre <> '' AND genre <> ?
		GROUP BY genre
		ORDER BY movie_count DESC, genre ASC`, models.NoGenresListed)
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer closeRows(rows)

	out := []models.GenreCount{}
	for rows.Next() {
		var g models.GenreCount
		if err := rows.Scan(&g.Genre, &g.MovieCount); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// DatasetCounts summarizes table sizes for the health endpoint.
type DatasetCounts struct {
	Movies              int `json:"movies"`
	Ratings             int `json:"ratings"`
	Users               int `json:"users"`
	RatedMovies         int `json:"rated_movies"`
	CollaborativeEdges  int `json:"collaborative_edges"`
	ContentEdges        int `json:"content_edges"`
	UserProfiles        int `json:"user_profiles"`
	GenreVocabularySize int `json:"genre_vocabulary_size"`
}

// Counts returns the current DatasetCounts.
func (db *DB) Counts(ctx context.Context) (*DatasetCounts, error) {
	var c DatasetCounts
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM movies),
			(SELECT COUNT(*) FROM ratings),
			(SELECT COUNT(DISTINCT user_id) FROM ratings),
			(SELECT COUNT(*) FROM movie_stats),
			(SELECT COUNT(*) FROM movie_similarity WHERE method = 'collaborative'),
			(SELECT COUNT(*) FROM movie_similarity WHERE method = 'content'),
			(SELECT COUNT(*) FROM user_profiles),
			(SELECT COUNT(*) FROM genre_vocabulary)`).Scan(
		&c.Movies, &c.Ratings, &c.Users, &c.RatedMovies,
		&c.CollaborativeEdges, &c.ContentEdges, &c.UserProfiles, &c.GenreVocabularySize)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset counts: %w", err)
	}
	return &c, nil
}

func collectMovies(rows *sql.Rows) ([]models.MovieWithStats, error) {
	out := []models.MovieWithStats{}
	for rows.Next() {
		m, err := scanMovieWithStats(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movies: %w", err)
	}
	return out, nil
}

// escapeLike escapes LIKE wildcards so query matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
