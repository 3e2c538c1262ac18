// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package movielensimport loads MovieLens datasets into the catalog.
//
// Two on-disk layouts are recognized in the configured data directory:
//
//   - CSV (ml-latest, ml-latest-small, ml-25m): movies.csv and ratings.csv
//     with a header row, comma separated, quoted titles, UTF-8.
//   - DAT (ml-1m, ml-10m): movies.dat and ratings.dat, "::" separated, no
//     header, ISO-8859-1 encoded.
//
// # Mapping
//
// Titles carry the release year as a trailing "(1995)". The year is split
// into Movie.Year and removed from the title. Genres are pipe separated and
// stored as-is, including the "(no genres listed)" sentinel.
//
// Ratings are skipped when the value is outside 0.5..5.0, when a field
// fails to parse, or when the movie is not present in the movies file.
// Skipped rows are counted and logged, never fatal.
//
// # Resumable Imports
//
// Movies are always re-imported; upserts make that idempotent. Ratings are
// upserted in batches and a checkpoint holding the last processed ratings
// line is saved after each batch. A restarted import resumes after the
// checkpoint when it targets the same data directory and the previous
// import did not complete. BadgerProgress persists checkpoints;
// InMemoryProgress is available for tests.
//
// # Usage
//
//	progress, err := movielensimport.OpenBadgerProgress(cfg.Import.ProgressPath)
//	importer := movielensimport.NewImporter(&cfg.Import, db, progress)
//	stats, err := importer.Import(ctx)
package movielensimport
