// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package main is the entry point for the CineRec server.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional YAML file, environment (koanf v2)
//  2. Logging: zerolog, with an slog adapter for suture events
//  3. Database: DuckDB with the movie, rating and derived tables
//  4. Engine: online recommendation queries with an LRU result cache
//  5. Precompute: run ledger (Badger) and the batch pipeline
//  6. Import (optional): one MovieLens import with a Badger checkpoint
//  7. Supervisor tree: data layer (import, precompute) and api layer (HTTP)
//
// # Configuration
//
// Environment variables are mapped to config keys through an explicit
// table in internal/config; unknown variables are ignored:
//
//	HTTP_PORT=8080
//	DUCKDB_PATH=/data/cinerec.duckdb
//	ENGINE_CACHE_CAPACITY=1000
//	PRECOMPUTE_INTERVAL=24h
//	IMPORT_ENABLED=true
//	IMPORT_DATA_DIR=/data/ml-latest-small
//	LEDGER_PATH=/data/ledger
//	LOG_LEVEL=debug
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server drains
// in-flight requests, a running import saves its checkpoint, and a
// running precompute transaction is rolled back, leaving the previous
// derived tables intact.
//
// # Example Usage
//
//	export IMPORT_ENABLED=true
//	export IMPORT_DATA_DIR=./ml-latest-small
//	export DUCKDB_PATH=./cinerec.duckdb
//	./cinerec
//	curl localhost:8080/api/v1/movies/1/recommendations/hybrid
package main
