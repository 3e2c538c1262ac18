// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"math"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.Weights.Collaborative != 0.6 || cfg.Weights.Content != 0.4 {
		t.Errorf("default weights = %+v, want 0.6/0.4", cfg.Weights)
	}
	if cfg.PopularMinRatings != 10 || cfg.SeedCount != 5 || cfg.PerSeedLimit != 5 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero default limit", func(c *Config) { c.DefaultLimit = 0 }, true},
		{"max below default", func(c *Config) { c.MaxLimit = 5 }, true},
		{"negative popular threshold", func(c *Config) { c.PopularMinRatings = -1 }, true},
		{"zero weights", func(c *Config) { c.Weights = Weights{} }, true},
		{"content only", func(c *Config) { c.Weights = Weights{Content: 1} }, false},
		{"zero seeds", func(c *Config) { c.SeedCount = 0 }, true},
		{"zero per-seed limit", func(c *Config) { c.PerSeedLimit = 0 }, true},
		{"negative ttl", func(c *Config) { c.CacheTTL = -time.Second }, true},
		{"cache disabled", func(c *Config) { c.CacheTTL = 0 }, false},
		{"negative cache capacity", func(c *Config) { c.CacheCapacity = -1 }, true},
		{"unbounded cache", func(c *Config) { c.CacheCapacity = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWeightsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		w    Weights
		want bool
	}{
		{Weights{0.6, 0.4}, true},
		{Weights{1, 0}, true},
		{Weights{0, 0}, false},
		{Weights{-0.1, 1}, false},
		{Weights{math.Inf(1), 0.4}, false},
		{Weights{0.6, math.NaN()}, false},
	}
	for _, tt := range tests {
		if got := tt.w.Valid(); got != tt.want {
			t.Errorf("%+v.Valid() = %v, want %v", tt.w, got, tt.want)
		}
	}
}

func TestClampLimit(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	tests := []struct{ in, want int }{
		{-1, 10}, {0, 10}, {1, 1}, {100, 100}, {101, 100},
	}
	for _, tt := range tests {
		if got := cfg.clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
