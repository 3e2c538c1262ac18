// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id INTEGER PRIMARY KEY,
		title VARCHAR NOT NULL,
		year INTEGER,
		genres VARCHAR NOT NULL DEFAULT '',
		overview VARCHAR,
		poster_path VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		user_id INTEGER NOT NULL,
		movie_id INTEGER NOT NULL,
		rating DOUBLE NOT NULL CHECK (rating >= 0.5 AND rating <= 5.0),
		rated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, movie_id)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_stats (
		movie_id INTEGER NOT NULL,
		avg_rating DOUBLE NOT NULL,
		rating_count INTEGER NOT NULL CHECK (rating_count > 0),
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS genre_vocabulary (
		position INTEGER NOT NULL,
		genre VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS movie_genre_vectors (
		movie_id INTEGER NOT NULL,
		genre_vector VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS movie_similarity (
		movie_id1 INTEGER NOT NULL,
		movie_id2 INTEGER NOT NULL,
		similarity_score DOUBLE NOT NULL CHECK (similarity_score >= 0 AND similarity_score <= 1),
		method VARCHAR NOT NULL CHECK (method IN ('collaborative', 'content')),
		CHECK (movie_id1 <> movie_id2)
	)`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id INTEGER NOT NULL,
		favorite_genres VARCHAR NOT NULL,
		avg_rating DOUBLE NOT NULL,
		rating_count INTEGER NOT NULL CHECK (rating_count > 0),
		rating_variance DOUBLE NOT NULL CHECK (rating_variance >= 0),
		updated_at TIMESTAMP NOT NULL
	)`,
}

// Derived tables are rewritten wholesale, so they carry non-unique
// indexes only.
var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_ratings_movie ON ratings (movie_id)`,
	`CREATE INDEX IF NOT EXISTS idx_movie_stats_movie ON movie_stats (movie_id)`,
	`CREATE INDEX IF NOT EXISTS idx_similarity_source ON movie_similarity (movie_id1, method)`,
	`CREATE INDEX IF NOT EXISTS idx_user_profiles_user ON user_profiles (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_genre_vectors_movie ON movie_genre_vectors (movie_id)`,
}

func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (db *DB) createIndexes(ctx context.Context) error {
	for _, stmt := range indexStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
