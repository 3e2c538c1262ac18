// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package precompute rebuilds the derived recommendation tables.
//
// A run loads every movie and rating once, then executes four jobs in
// order:
//
//	movie_stats            average rating and count per rated movie
//	genre_vectors_content  genre vocabulary, genre vectors and content edges
//	collaborative          item-item collaborative edges
//	user_profiles          per-user rating statistics and genre affinity
//
// Each job replaces its tables in a single transaction, so a failing job
// leaves the previous rows in place. A failed job does not stop the jobs
// after it; the run is reported failed and the job errors are joined.
//
// Only one run executes at a time. A trigger that arrives while a run is
// in progress gets ErrRunInProgress. Finished runs are written to the run
// ledger and handed to the completion hooks, which the server uses to clear
// the engine's popular-list cache.
package precompute
