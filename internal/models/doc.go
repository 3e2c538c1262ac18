// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package models defines the data structures shared by the CineRec packages.

Source records:

  - Movie: catalog entry with its ordered genre tags
  - Rating: one (user, movie) rating; unique per pair, last write wins

Derived records, rebuilt by the precompute pipeline and read-only to the
recommendation engine:

  - MovieStats: per-movie average rating and rating count
  - GenreVector: binary genre vector over the global vocabulary
  - SimilarityEdge: directed scored edge tagged with a SimilarityMethod
  - UserProfile: genre affinity counts plus rating summary statistics

API records:

  - APIResponse, Metadata, APIError: the JSON envelope used by every endpoint
*/
package models
