// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package storage keeps the precompute run ledger.
//
// Every precompute run is recorded once it finishes, together with the
// outcome of each job it ran. Operators read the ledger through the admin
// API to see when derived tables were last rebuilt and why a job failed.
//
// Two implementations are provided:
//
//   - BadgerLedger persists runs in BadgerDB. Keys sort by start time so
//     the newest runs are read with a reverse prefix scan. An empty path
//     opens an in-memory Badger instance.
//   - MemoryLedger keeps runs in a slice and is meant for tests.
//
// Both prune the oldest runs once more than KeepRuns are stored.
package storage
