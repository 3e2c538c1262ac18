// CineRec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinerec/config.yaml",
	"/etc/cinerec/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Database: DatabaseConfig{
			Path:      "/data/cinerec.duckdb",
			MaxMemory: "2GB",
		},
		Engine: EngineConfig{
			DefaultLimit:      10,
			MaxLimit:          100,
			PopularMinRatings: 10,
			CollabWeight:      0.6,
			ContentWeight:     0.4,
			SeedCount:         5,
			PerSeedLimit:      5,
			CacheTTL:          5 * time.Minute,
			CacheCapacity:     1000,
		},
		Precompute: PrecomputeConfig{
			Enabled:               true,
			RunOnStartup:          true,
			Interval:              24 * time.Hour,
			Timeout:               time.Hour,
			CollaborativeTopK:     20,
			CollaborativeMinScore: 0.1,
			ContentMinScore:       0.1,
			ContentMaxPerMovie:    0,
			InsertBatchSize:       500,
		},
		Import: ImportConfig{
			DataDir:      "/data/movielens",
			BatchSize:    5000,
			Resume:       true,
			ProgressPath: "/data/import-progress",
		},
		Ledger: LedgerConfig{
			Path:     "/data/ledger",
			KeepRuns: 50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, file and environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated env values for slice keys.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_host":                "server.host",
	"http_port":                "server.port",
	"http_timeout":             "server.timeout",
	"cors_origins":             "server.cors_origins",
	"rate_limit_reqs":          "server.rate_limit_reqs",
	"rate_limit_window":        "server.rate_limit_window",
	"disable_rate_limit":       "server.rate_limit_disabled",
	"duckdb_path":              "database.path",
	"duckdb_max_memory":        "database.max_memory",
	"duckdb_threads":           "database.threads",
	"engine_default_limit":     "engine.default_limit",
	"engine_max_limit":         "engine.max_limit",
	"popular_min_ratings":      "engine.popular_min_ratings",
	"hybrid_collab_weight":     "engine.collab_weight",
	"hybrid_content_weight":    "engine.content_weight",
	"personalize_seed_count":   "engine.seed_count",
	"personalize_per_seed":     "engine.per_seed_limit",
	"engine_cache_ttl":         "engine.cache_ttl",
	"engine_cache_capacity":    "engine.cache_capacity",
	"precompute_enabled":       "precompute.enabled",
	"precompute_on_startup":    "precompute.run_on_startup",
	"precompute_interval":      "precompute.interval",
	"precompute_timeout":       "precompute.timeout",
	"collab_top_k":             "precompute.collaborative_top_k",
	"collab_min_score":         "precompute.collaborative_min_score",
	"content_min_score":        "precompute.content_min_score",
	"content_max_per_movie":    "precompute.content_max_per_movie",
	"precompute_workers":       "precompute.workers",
	"precompute_batch_size":    "precompute.insert_batch_size",
	"import_enabled":           "import.enabled",
	"import_data_dir":          "import.data_dir",
	"import_batch_size":        "import.batch_size",
	"import_resume":            "import.resume",
	"import_progress_path":     "import.progress_path",
	"ledger_path":              "ledger.path",
	"ledger_keep_runs":         "ledger.keep_runs",
	"ledger_sync_writes":       "ledger.sync_writes",
	"log_level":                "logging.level",
	"log_format":               "logging.format",
	"log_caller":               "logging.caller",
}

// envTransformFunc maps known environment variables to config paths.
// Unknown variables return "" and are dropped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
