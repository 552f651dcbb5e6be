// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/auspex/config.yaml",
	"/etc/auspex/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values
//  2. Config File: optional YAML config file (if exists)
//  3. Environment Variables: override any setting
//
// After unmarshaling, a legacy DATABASE_URL value is normalized into
// Database.Path and the result is validated.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Env vars arrive as strings; convert known slice and map fields.
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}
	if err := processMapFields(k); err != nil {
		return nil, fmt.Errorf("failed to process map fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.Database.URL != "" {
		path, err := DatabasePathFromURL(cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		cfg.Database.Path = path
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as comma-separated slices.
var sliceConfigPaths = []string{
	"api.cors_origins",
	"detection.ip_blacklist",
}

// mapConfigPaths defines which config paths are parsed as comma-separated
// key=value maps (e.g. WEBHOOK_HEADERS="Authorization=Bearer xyz,X-Env=prod").
var mapConfigPaths = []string{
	"detection.webhook.headers",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// processMapFields converts comma-separated key=value strings to maps for
// known map fields.
func processMapFields(k *koanf.Koanf) error {
	for _, path := range mapConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parsed := make(map[string]string)
		for _, pair := range strings.Split(strVal, ",") {
			key, value, found := strings.Cut(pair, "=")
			key = strings.TrimSpace(key)
			if !found || key == "" {
				continue
			}
			parsed[key] = strings.TrimSpace(value)
		}
		if err := k.Set(path, parsed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DATABASE_URL -> database.url
//   - IP_BLACKLIST -> detection.ip_blacklist
//   - MAXMIND_DB_PATH -> geo.maxmind_db_path
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":          "server.host",
		"http_port":          "server.port",
		"http_read_timeout":  "server.read_timeout",
		"http_write_timeout": "server.write_timeout",
		"shutdown_timeout":   "server.shutdown_timeout",
		"environment":        "server.environment",

		// Database mappings
		"duckdb_path":       "database.path",
		"database_url":      "database.url",
		"duckdb_max_memory": "database.max_memory",
		"duckdb_threads":    "database.threads",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// API mappings
		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",
		"cors_origins":          "api.cors_origins",
		"rate_limit_requests":   "api.rate_limit_reqs",
		"rate_limit_window":     "api.rate_limit_window",
		"disable_rate_limit":    "api.rate_limit_disabled",

		// Geolocation mappings
		"maxmind_db_path":      "geo.maxmind_db_path",
		"geo_fallback_enabled": "geo.fallback_enabled",
		"geo_fallback_url":     "geo.fallback_url",
		"geo_fallback_timeout": "geo.fallback_timeout",
		"geo_cache_size":       "geo.cache_size",
		"geo_cache_ttl":        "geo.cache_ttl",

		// Detection mappings
		"detection_enabled":     "detection.enabled",
		"business_hours_start":  "detection.business_hours_start",
		"business_hours_end":    "detection.business_hours_end",
		"brute_force_threshold": "detection.brute_force_threshold",
		"brute_force_window":    "detection.brute_force_window",
		"ip_blacklist":          "detection.ip_blacklist",

		// Webhook notifier mappings
		"webhook_url":           "detection.webhook.webhook_url",
		"webhook_enabled":       "detection.webhook.enabled",
		"webhook_rate_limit_ms": "detection.webhook.rate_limit_ms",
		"webhook_headers":       "detection.webhook.headers",

		// Retention mappings
		"retention_enabled":        "retention.enabled",
		"alert_retention_days":     "retention.alert_retention_days",
		"retention_sweep_interval": "retention.sweep_interval",

		// Blacklist feed mappings
		"intel_enabled":       "intel.enabled",
		"intel_feed_url":      "intel.feed_url",
		"intel_feed_interval": "intel.feed_interval",

		// NATS mappings
		"nats_enabled":        "nats.enabled",
		"nats_url":            "nats.url",
		"nats_embedded":       "nats.embedded_server",
		"nats_store_dir":      "nats.store_dir",
		"nats_subject_prefix": "nats.subject_prefix",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables cannot
	// pollute the configuration.
	return ""
}

// DatabasePathFromURL reduces a legacy DATABASE_URL value to a filesystem
// path. Accepted forms:
//
//	sqlite:///./auspex.db       (relative, from older deployments)
//	duckdb:////data/auspex.db   (absolute)
//	/data/auspex.duckdb         (bare path)
//
// Three slashes after the scheme mean a relative path, four an absolute one.
// A sqlite URL is accepted for compatibility but the file is opened as DuckDB.
func DatabasePathFromURL(raw string) (string, error) {
	scheme, rest, found := strings.Cut(raw, "://")
	if !found {
		if raw == "" {
			return "", fmt.Errorf("empty value")
		}
		return raw, nil
	}

	switch scheme {
	case "duckdb", "sqlite", "file":
	default:
		return "", fmt.Errorf("unsupported scheme %q (want duckdb, sqlite, or file)", scheme)
	}

	path := strings.TrimPrefix(rest, "/")
	if path == "" {
		return "", fmt.Errorf("no path in %q", raw)
	}
	return path, nil
}
