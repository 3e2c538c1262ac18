// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package database is the DuckDB data layer for CineRec.
//
// # Tables
//
// Source tables, written by the importer and the ratings endpoint:
//   - movies: catalog, genres stored pipe-delimited
//   - ratings: one row per (user_id, movie_id), upserted
//
// Derived tables, rebuilt by the precompute pipeline:
//   - movie_stats
//   - genre_vocabulary and movie_genre_vectors, always replaced together
//   - movie_similarity, replaced per method
//   - user_profiles
//
// # Replacement
//
// Every derived table is replaced inside a single transaction: delete the
// old rows, insert the new ones in batches, commit. Readers keep seeing
// the previous snapshot until commit, and any failure rolls the whole
// replacement back. Derived tables carry CHECK constraints that reject
// rows the builders must never produce (zero counts, self edges, scores
// outside [0,1]).
//
// # Files
//
//   - database.go: connection lifecycle
//   - database_schema.go: tables and indexes
//   - crud_movies.go, crud_ratings.go: source table writes and scans
//   - derived_tables.go: transactional replacement of derived tables
//   - recommend_queries.go: read paths used by the recommendation engine
package database
