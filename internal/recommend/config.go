// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Config contains the online engine settings.
type Config struct {
	// DefaultLimit is used when a caller passes limit <= 0.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps any requested limit.
	MaxLimit int `json:"max_limit"`

	// PopularMinRatings is the exclusive lower bound on rating count for
	// the popular list.
	PopularMinRatings int `json:"popular_min_ratings"`

	// Weights are the default hybrid weights.
	Weights Weights `json:"weights"`

	// SeedCount is how many recent ratings seed personalized results.
	SeedCount int `json:"seed_count"`

	// PerSeedLimit is the hybrid limit requested per seed.
	PerSeedLimit int `json:"per_seed_limit"`

	// CacheTTL bounds result staleness between precompute runs.
	// Zero disables the cache.
	CacheTTL time.Duration `json:"cache_ttl"`

	// CacheCapacity bounds the number of cached result lists; the least
	// recently used list is evicted first. Zero means unbounded.
	CacheCapacity int `json:"cache_capacity"`
}

// Weights are the hybrid contributions of each similarity method.
// They are applied as given and not normalized.
type Weights struct {
	Collaborative float64 `json:"collaborative"`
	Content       float64 `json:"content"`
}

// DefaultWeights returns the 0.6 / 0.4 collaborative / content split.
func DefaultWeights() Weights {
	return Weights{Collaborative: 0.6, Content: 0.4}
}

// Valid reports whether both weights are finite and non-negative and at
// least one is positive.
func (w Weights) Valid() bool {
	for _, v := range []float64{w.Collaborative, w.Content} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return w.Collaborative > 0 || w.Content > 0
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		DefaultLimit:      10,
		MaxLimit:          100,
		PopularMinRatings: 10,
		Weights:           DefaultWeights(),
		SeedCount:         5,
		PerSeedLimit:      5,
		CacheTTL:          5 * time.Minute,
		CacheCapacity:     1000,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	if c.DefaultLimit <= 0 {
		errs = append(errs, fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit))
	}
	if c.MaxLimit < c.DefaultLimit {
		errs = append(errs, fmt.Errorf("max_limit (%d) must be >= default_limit (%d)", c.MaxLimit, c.DefaultLimit))
	}
	if c.PopularMinRatings < 0 {
		errs = append(errs, fmt.Errorf("popular_min_ratings must be non-negative, got %d", c.PopularMinRatings))
	}
	if !c.Weights.Valid() {
		errs = append(errs, fmt.Errorf("weights must be finite, non-negative and not both zero, got %+v", c.Weights))
	}
	if c.SeedCount <= 0 {
		errs = append(errs, fmt.Errorf("seed_count must be positive, got %d", c.SeedCount))
	}
	if c.PerSeedLimit <= 0 {
		errs = append(errs, fmt.Errorf("per_seed_limit must be positive, got %d", c.PerSeedLimit))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("cache_ttl must be non-negative, got %s", c.CacheTTL))
	}
	if c.CacheCapacity < 0 {
		errs = append(errs, fmt.Errorf("cache_capacity must be non-negative, got %d", c.CacheCapacity))
	}
	return errors.Join(errs...)
}

// clampLimit applies the default and maximum to a requested limit.
func (c *Config) clampLimit(limit int) int {
	if limit <= 0 {
		return c.DefaultLimit
	}
	if limit > c.MaxLimit {
		return c.MaxLimit
	}
	return limit
}
