// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks value ranges across all sections.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateServer(),
		c.validateDatabase(),
		c.validateEngine(),
		c.validatePrecompute(),
		c.validateImport(),
		c.validateLogging(),
	)
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if !c.Server.RateLimitDisabled && (c.Server.RateLimitReqs <= 0 || c.Server.RateLimitWindow <= 0) {
		return fmt.Errorf("rate limit requires RATE_LIMIT_REQS > 0 and RATE_LIMIT_WINDOW > 0")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateEngine() error {
	e := c.Engine
	switch {
	case e.DefaultLimit <= 0:
		return fmt.Errorf("ENGINE_DEFAULT_LIMIT must be positive, got %d", e.DefaultLimit)
	case e.MaxLimit < e.DefaultLimit:
		return fmt.Errorf("ENGINE_MAX_LIMIT (%d) must be >= ENGINE_DEFAULT_LIMIT (%d)", e.MaxLimit, e.DefaultLimit)
	case e.PopularMinRatings < 0:
		return fmt.Errorf("POPULAR_MIN_RATINGS must be >= 0, got %d", e.PopularMinRatings)
	case e.CollabWeight < 0 || e.ContentWeight < 0:
		return fmt.Errorf("hybrid weights must be non-negative, got %.2f/%.2f", e.CollabWeight, e.ContentWeight)
	case e.CollabWeight+e.ContentWeight == 0:
		return fmt.Errorf("at least one hybrid weight must be positive")
	case e.SeedCount <= 0 || e.PerSeedLimit <= 0:
		return fmt.Errorf("PERSONALIZE_SEED_COUNT and PERSONALIZE_PER_SEED must be positive")
	case e.CacheTTL < 0:
		return fmt.Errorf("ENGINE_CACHE_TTL must be >= 0, got %v", e.CacheTTL)
	case e.CacheCapacity < 0:
		return fmt.Errorf("ENGINE_CACHE_CAPACITY must be >= 0, got %d", e.CacheCapacity)
	}
	return nil
}

func (c *Config) validatePrecompute() error {
	p := c.Precompute
	if !p.Enabled {
		return nil
	}
	switch {
	case p.Interval <= 0:
		return fmt.Errorf("PRECOMPUTE_INTERVAL must be positive, got %v", p.Interval)
	case p.Timeout <= 0:
		return fmt.Errorf("PRECOMPUTE_TIMEOUT must be positive, got %v", p.Timeout)
	case p.CollaborativeTopK <= 0:
		return fmt.Errorf("COLLAB_TOP_K must be positive, got %d", p.CollaborativeTopK)
	case p.CollaborativeMinScore < 0 || p.CollaborativeMinScore >= 1:
		return fmt.Errorf("COLLAB_MIN_SCORE must be in [0,1), got %.3f", p.CollaborativeMinScore)
	case p.ContentMinScore < 0 || p.ContentMinScore >= 1:
		return fmt.Errorf("CONTENT_MIN_SCORE must be in [0,1), got %.3f", p.ContentMinScore)
	case p.ContentMaxPerMovie < 0:
		return fmt.Errorf("CONTENT_MAX_PER_MOVIE must be >= 0, got %d", p.ContentMaxPerMovie)
	case p.Workers < 0:
		return fmt.Errorf("PRECOMPUTE_WORKERS must be >= 0, got %d", p.Workers)
	case p.InsertBatchSize <= 0:
		return fmt.Errorf("PRECOMPUTE_BATCH_SIZE must be positive, got %d", p.InsertBatchSize)
	}
	return nil
}

func (c *Config) validateImport() error {
	if !c.Import.Enabled {
		return nil
	}
	if c.Import.DataDir == "" {
		return fmt.Errorf("IMPORT_DATA_DIR is required when IMPORT_ENABLED=true")
	}
	if c.Import.BatchSize <= 0 {
		return fmt.Errorf("IMPORT_BATCH_SIZE must be positive, got %d", c.Import.BatchSize)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
