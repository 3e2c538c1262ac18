// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/models"
)

// replaceStep is one DELETE followed by its inserts.
type replaceStep struct {
	deleteSQL  string
	deleteArgs []any
	insert     bulkInsert
}

// replace runs every step in one transaction. Readers see either the
// previous rows or the new rows, never a mix.
func (db *DB) replace(ctx context.Context, table string, steps ...replaceStep) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("replace "+table, time.Since(start), err)
	}()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin %s replacement: %w", table, err)
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.deleteSQL, step.deleteArgs...); err != nil {
			return rollback(tx, fmt.Errorf("failed to clear %s: %w", table, err))
		}
		if err := step.insert.exec(ctx, tx, db.batchSize); err != nil {
			return rollback(tx, fmt.Errorf("failed to write %s: %w", table, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s replacement: %w", table, err)
	}
	return nil
}

// ReplaceMovieStats swaps the movie_stats contents for stats. Entries
// without an average are skipped.
func (db *DB) ReplaceMovieStats(ctx context.Context, stats []models.MovieStats) error {
	rows := make([]models.MovieStats, 0, len(stats))
	for _, s := range stats {
		if s.AverageRating != nil {
			rows = append(rows, s)
		}
	}
	now := time.Now().UTC()

	return db.replace(ctx, "movie_stats", replaceStep{
		deleteSQL: "DELETE FROM movie_stats",
		insert: bulkInsert{
			prefix:  "INSERT INTO movie_stats (movie_id, avg_rating, rating_count, updated_at)",
			columns: 4,
			rows:    len(rows),
			args: func(i int) []any {
				return []any{rows[i].MovieID, *rows[i].AverageRating, rows[i].RatingCount, now}
			},
		},
	})
}

// ReplaceGenreVectors swaps the vocabulary and the per-movie vectors in a
// single transaction so positions always refer to the stored vocabulary.
func (db *DB) ReplaceGenreVectors(ctx context.Context, vocabulary []string, vectors []models.GenreVector) error {
	encoded := make([]string, len(vectors))
	for i, v := range vectors {
		if len(v.Vector) != len(vocabulary) {
			return fmt.Errorf("movie %d: vector length %d does not match vocabulary size %d",
				v.MovieID, len(v.Vector), len(vocabulary))
		}
		b, err := json.Marshal(v.Vector)
		if err != nil {
			return fmt.Errorf("movie %d: encode genre vector: %w", v.MovieID, err)
		}
		encoded[i] = string(b)
	}

	return db.replace(ctx, "genre vectors",
		replaceStep{
			deleteSQL: "DELETE FROM genre_vocabulary",
			insert: bulkInsert{
				prefix:  "INSERT INTO genre_vocabulary (position, genre)",
				columns: 2,
				rows:    len(vocabulary),
				args:    func(i int) []any { return []any{i, vocabulary[i]} },
			},
		},
		replaceStep{
			deleteSQL: "DELETE FROM movie_genre_vectors",
			insert: bulkInsert{
				prefix:  "INSERT INTO movie_genre_vectors (movie_id, genre_vector)",
				columns: 2,
				rows:    len(vectors),
				args:    func(i int) []any { return []any{vectors[i].MovieID, encoded[i]} },
			},
		},
	)
}

// ReplaceSimilarity swaps all edges of one method. Edges of the other
// method are untouched.
func (db *DB) ReplaceSimilarity(ctx context.Context, method models.SimilarityMethod, edges []models.SimilarityEdge) error {
	if !method.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	for _, e := range edges {
		if e.Method != method {
			return fmt.Errorf("%w: edge %d->%d has method %q, replacing %q",
				ErrInvalidMethod, e.SourceID, e.TargetID, e.Method, method)
		}
	}

	return db.replace(ctx, "movie_similarity", replaceStep{
		deleteSQL:  "DELETE FROM movie_similarity WHERE method = ?",
		deleteArgs: []any{string(method)},
		insert: bulkInsert{
			prefix:  "INSERT INTO movie_similarity (movie_id1, movie_id2, similarity_score, method)",
			columns: 4,
			rows:    len(edges),
			args: func(i int) []any {
				e := &edges[i]
				return []any{e.SourceID, e.TargetID, e.Score, string(e.Method)}
			},
		},
	})
}

// ReplaceUserProfiles swaps the user_profiles contents.
func (db *DB) ReplaceUserProfiles(ctx context.Context, profiles []models.UserProfile) error {
	encoded := make([]string, len(profiles))
	for i := range profiles {
		s, err := models.EncodeGenreAffinities(profiles[i].FavoriteGenres)
		if err != nil {
			return fmt.Errorf("user %d: %w", profiles[i].UserID, err)
		}
		encoded[i] = s
	}
	now := time.Now().UTC()

	return db.replace(ctx, "user_profiles", replaceStep{
		deleteSQL: "DELETE FROM user_profiles",
		insert: bulkInsert{
			prefix:  "INSERT INTO user_profiles (user_id, favorite_genres, avg_rating, rating_count, rating_variance, updated_at)",
			columns: 6,
			rows:    len(profiles),
			args: func(i int) []any {
				p := &profiles[i]
				return []any{p.UserID, encoded[i], p.AvgRating, p.RatingCount, p.RatingVariance, now}
			},
		},
	})
}
