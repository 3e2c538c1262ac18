// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package config loads CineRec configuration with koanf.
//
// Sources are layered with increasing priority: built-in defaults, an
// optional YAML file (CONFIG_PATH or the default search paths), then
// environment variables. The result is validated before it is returned.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Engine     EngineConfig     `koanf:"engine"`
	Precompute PrecomputeConfig `koanf:"precompute"`
	Import     ImportConfig     `koanf:"import"`
	Ledger     LedgerConfig     `koanf:"ledger"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// EngineConfig holds online recommendation settings.
type EngineConfig struct {
	DefaultLimit      int           `koanf:"default_limit"`
	MaxLimit          int           `koanf:"max_limit"`
	PopularMinRatings int           `koanf:"popular_min_ratings"` // strictly greater than
	CollabWeight      float64       `koanf:"collab_weight"`
	ContentWeight     float64       `koanf:"content_weight"`
	SeedCount         int           `koanf:"seed_count"`
	PerSeedLimit      int           `koanf:"per_seed_limit"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`      // 0 disables the result cache
	CacheCapacity     int           `koanf:"cache_capacity"` // 0 = unbounded
}

// PrecomputeConfig holds batch rebuild settings.
type PrecomputeConfig struct {
	Enabled               bool          `koanf:"enabled"`
	RunOnStartup          bool          `koanf:"run_on_startup"`
	Interval              time.Duration `koanf:"interval"`
	Timeout               time.Duration `koanf:"timeout"`
	CollaborativeTopK     int           `koanf:"collaborative_top_k"`
	CollaborativeMinScore float64       `koanf:"collaborative_min_score"`
	ContentMinScore       float64       `koanf:"content_min_score"`
	ContentMaxPerMovie    int           `koanf:"content_max_per_movie"` // 0 = unbounded
	Workers               int           `koanf:"workers"`               // 0 = runtime.NumCPU()
	InsertBatchSize       int           `koanf:"insert_batch_size"`
}

// ImportConfig holds MovieLens import settings.
type ImportConfig struct {
	Enabled      bool   `koanf:"enabled"`
	DataDir      string `koanf:"data_dir"`
	BatchSize    int    `koanf:"batch_size"`
	Resume       bool   `koanf:"resume"`
	ProgressPath string `koanf:"progress_path"`
}

// LedgerConfig holds the precompute run ledger settings.
type LedgerConfig struct {
	Path       string `koanf:"path"` // empty keeps the ledger in memory
	KeepRuns   int    `koanf:"keep_runs"`
	SyncWrites bool   `koanf:"sync_writes"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}
