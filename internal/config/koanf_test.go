// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Engine.CollabWeight != 0.6 || cfg.Engine.ContentWeight != 0.4 {
		t.Errorf("hybrid weights = %.1f/%.1f, want 0.6/0.4", cfg.Engine.CollabWeight, cfg.Engine.ContentWeight)
	}
	if cfg.Engine.PopularMinRatings != 10 {
		t.Errorf("PopularMinRatings = %d, want 10", cfg.Engine.PopularMinRatings)
	}
	if cfg.Precompute.CollaborativeTopK != 20 {
		t.Errorf("CollaborativeTopK = %d, want 20", cfg.Precompute.CollaborativeTopK)
	}
	if cfg.Precompute.CollaborativeMinScore != 0.1 || cfg.Precompute.ContentMinScore != 0.1 {
		t.Errorf("similarity thresholds = %.2f/%.2f, want 0.1/0.1",
			cfg.Precompute.CollaborativeMinScore, cfg.Precompute.ContentMinScore)
	}
	if cfg.Engine.SeedCount != 5 || cfg.Engine.PerSeedLimit != 5 {
		t.Errorf("seed settings = %d/%d, want 5/5", cfg.Engine.SeedCount, cfg.Engine.PerSeedLimit)
	}
	if cfg.Precompute.ContentMaxPerMovie != 0 {
		t.Errorf("ContentMaxPerMovie = %d, want 0 (unbounded)", cfg.Precompute.ContentMaxPerMovie)
	}
	if cfg.Engine.CacheCapacity != 1000 {
		t.Errorf("CacheCapacity = %d, want 1000", cfg.Engine.CacheCapacity)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("HYBRID_COLLAB_WEIGHT", "0.7")
	t.Setenv("PRECOMPUTE_INTERVAL", "6h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Engine.CollabWeight != 0.7 {
		t.Errorf("CollabWeight = %v, want 0.7", cfg.Engine.CollabWeight)
	}
	if cfg.Precompute.Interval != 6*time.Hour {
		t.Errorf("Interval = %v, want 6h", cfg.Precompute.Interval)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := strings.Join([]string{
		"database:",
		"  path: /tmp/test.duckdb",
		"engine:",
		"  default_limit: 20",
		"  max_limit: 50",
		"precompute:",
		"  content_max_per_movie: 50",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("ENGINE_MAX_LIMIT", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/tmp/test.duckdb" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Engine.DefaultLimit != 20 {
		t.Errorf("DefaultLimit = %d, want 20", cfg.Engine.DefaultLimit)
	}
	if cfg.Engine.MaxLimit != 60 {
		t.Errorf("MaxLimit = %d, want env override 60", cfg.Engine.MaxLimit)
	}
	if cfg.Precompute.ContentMaxPerMovie != 50 {
		t.Errorf("ContentMaxPerMovie = %d, want 50", cfg.Precompute.ContentMaxPerMovie)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"DUCKDB_PATH":       "database.path",
		"COLLAB_TOP_K":      "precompute.collaborative_top_k",
		"IMPORT_DATA_DIR":   "import.data_dir",
		"HOME":              "",
		"UNRELATED_SETTING": "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"negative weight", func(c *Config) { c.Engine.ContentWeight = -1 }, "non-negative"},
		{"zero weights", func(c *Config) { c.Engine.CollabWeight, c.Engine.ContentWeight = 0, 0 }, "at least one"},
		{"max below default", func(c *Config) { c.Engine.MaxLimit = 5 }, "ENGINE_MAX_LIMIT"},
		{"threshold out of range", func(c *Config) { c.Precompute.ContentMinScore = 1 }, "CONTENT_MIN_SCORE"},
		{"top k", func(c *Config) { c.Precompute.CollaborativeTopK = 0 }, "COLLAB_TOP_K"},
		{"precompute disabled skips checks", func(c *Config) {
			c.Precompute.Enabled = false
			c.Precompute.CollaborativeTopK = 0
		}, ""},
		{"import needs dir", func(c *Config) {
			c.Import.Enabled = true
			c.Import.DataDir = ""
		}, "IMPORT_DATA_DIR"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	t.Parallel()
	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := s.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", got)
	}
}
