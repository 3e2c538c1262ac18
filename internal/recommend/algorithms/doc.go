// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package algorithms implements the offline builders that turn raw movies
// and ratings into the derived tables read by the recommendation engine.
//
// # Builders
//
//   - AggregateMovieStats: per-movie mean rating and count
//   - VectorizeGenres: sorted genre vocabulary and binary genre vectors
//   - ContentSimilarity: cosine over genre vectors, both directions kept
//   - CollaborativeSimilarity: item-item cosine over the user x movie
//     rating matrix, top-K per movie above a threshold
//   - BuildUserProfiles: rating summary and genre affinity per user
//
// Builders are pure: they take slices, return slices, and never touch
// storage. Persistence and scheduling live in the precompute package.
//
// # Determinism
//
// Every builder returns its output in a stable order. Equal similarity
// scores are ordered by movie ID ascending.
package algorithms
