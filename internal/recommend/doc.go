// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package recommend serves movie recommendations from precomputed data.
//
// # Architecture
//
// Heavy work happens offline in the precompute pipeline
// (internal/recommend/precompute), which rebuilds movie statistics, genre
// vectors, similarity edges and user profiles from the ratings table. The
// Engine in this package only reads those derived tables through the Store
// interface and combines them at request time:
//
//   - Popular: avg_rating * ln(rating_count + 1) over movies with more
//     than PopularMinRatings ratings
//   - Collaborative and content-based: stored similarity edges for a seed
//     movie, highest score first
//   - Hybrid: weighted sum of both edge lists, a movie present in both
//     lists receives both contributions
//   - Personalized: hybrid results around the user's most recent ratings,
//     boosted by how well each candidate matches the user's genres
//
// # Error Handling
//
// Engine methods never return errors. Storage failures are logged, counted
// in Prometheus, and turned into empty results. Missing data degrades to
// a fallback: users without a usable profile get the popular list.
//
// # Determinism
//
// Every ranking breaks ties by movie ID ascending, so identical inputs
// produce identical output.
//
// # Thread Safety
//
// The engine is safe for concurrent use. The only mutable state is the
// popular-list cache, which the precompute pipeline clears after each run
// through InvalidateCache.
package recommend
