// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file, and environment variables.
//
// Thread Safety: Config is immutable after Load() and safe for concurrent
// read access from multiple goroutines.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Logging   LoggingConfig   `koanf:"logging"`
	API       APIConfig       `koanf:"api"`
	Geo       GeoConfig       `koanf:"geo"`
	Detection DetectionConfig `koanf:"detection"`
	Retention RetentionConfig `koanf:"retention"`
	Intel     IntelConfig     `koanf:"intel"`
	NATS      NATSConfig      `koanf:"nats"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// Environment mode: "development", "staging", "production".
	Environment string `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. ":memory:" opens an in-memory
	// database (used by tests).
	Path string `koanf:"path"`
	// URL accepts a legacy DATABASE_URL value (sqlite:///x.db, duckdb:///x.db,
	// or a bare path). When set it overrides Path after normalization.
	URL       string `koanf:"url"`
	MaxMemory string `koanf:"max_memory"`
	// Threads is the number of DuckDB threads (0 = use NumCPU).
	Threads int `koanf:"threads"`
	// SkipIndexes skips index creation for fast test setup.
	SkipIndexes bool `koanf:"skip_indexes"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is the output format: json or console.
	Format string `koanf:"format"`
	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// APIConfig holds HTTP API pagination, CORS, and rate-limit settings.
type APIConfig struct {
	DefaultPageSize   int           `koanf:"default_page_size"`
	MaxPageSize       int           `koanf:"max_page_size"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// GeoConfig holds geolocation resolver settings.
//
// The resolver consults a local MaxMind GeoLite2 City database first and
// falls back to a public HTTP API for addresses the database cannot answer.
// Private and loopback ranges are never looked up.
type GeoConfig struct {
	// MaxMindDBPath is the GeoLite2-City.mmdb location. Empty disables the
	// MaxMind path; a missing file is not an error.
	MaxMindDBPath string `koanf:"maxmind_db_path"`
	// FallbackEnabled controls the HTTP fallback lookup.
	FallbackEnabled bool `koanf:"fallback_enabled"`
	// FallbackURL is the lookup endpoint; the IP is appended as a path segment.
	FallbackURL     string        `koanf:"fallback_url"`
	FallbackTimeout time.Duration `koanf:"fallback_timeout"`
	CacheSize       int           `koanf:"cache_size"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
}

// DetectionConfig holds detection engine settings.
type DetectionConfig struct {
	Enabled bool `koanf:"enabled"`

	// BusinessHoursStart and BusinessHoursEnd bound the working window in
	// UTC hours; a login is inside business hours when start <= hour < end
	// on a weekday.
	BusinessHoursStart int `koanf:"business_hours_start"`
	BusinessHoursEnd   int `koanf:"business_hours_end"`

	// BruteForceThreshold failed logins within BruteForceWindow from one
	// source address trigger an alert.
	BruteForceThreshold int           `koanf:"brute_force_threshold"`
	BruteForceWindow    time.Duration `koanf:"brute_force_window"`

	// IPBlacklist is the static blocklist consulted by the blacklisted-ip
	// rule. IP_BLACKLIST accepts a comma-separated list.
	IPBlacklist []string `koanf:"ip_blacklist"`

	// Webhook configures the outbound alert notifier.
	Webhook WebhookNotifierConfig `koanf:"webhook"`
}

// WebhookNotifierConfig holds generic webhook notification settings.
type WebhookNotifierConfig struct {
	WebhookURL  string            `koanf:"webhook_url"`
	Enabled     bool              `koanf:"enabled"`
	RateLimitMs int               `koanf:"rate_limit_ms"`
	Headers     map[string]string `koanf:"headers"`
}

// RetentionConfig holds the retention janitor settings.
type RetentionConfig struct {
	Enabled bool `koanf:"enabled"`
	// AlertRetentionDays bounds how long resolved alerts and their log
	// entries are kept.
	AlertRetentionDays int           `koanf:"alert_retention_days"`
	SweepInterval      time.Duration `koanf:"sweep_interval"`
}

// IntelConfig holds the blacklist feed updater settings.
//
// When enabled, the feed at FeedURL (plaintext, one IP per line, '#'
// comments) is fetched periodically and merged into the static blacklist.
type IntelConfig struct {
	Enabled      bool          `koanf:"enabled"`
	FeedURL      string        `koanf:"feed_url"`
	FeedInterval time.Duration `koanf:"feed_interval"`
}

// NATSConfig holds optional alert publishing settings (build tag: nats).
type NATSConfig struct {
	Enabled        bool   `koanf:"enabled"`
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	StoreDir       string `koanf:"store_dir"`
	SubjectPrefix  string `koanf:"subject_prefix"`
}

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:      "./data/auspex.duckdb",
			URL:       "",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		API: APIConfig{
			DefaultPageSize:   100,
			MaxPageSize:       1000,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Geo: GeoConfig{
			MaxMindDBPath:   "",
			FallbackEnabled: true,
			FallbackURL:     "http://ip-api.com/json",
			FallbackTimeout: 2 * time.Second,
			CacheSize:       4096,
			CacheTTL:        time.Hour,
		},
		Detection: DetectionConfig{
			Enabled:             true,
			BusinessHoursStart:  8,
			BusinessHoursEnd:    18,
			BruteForceThreshold: 5,
			BruteForceWindow:    10 * time.Minute,
			IPBlacklist:         []string{"10.0.0.100", "192.168.1.200", "172.16.0.50"},
			Webhook: WebhookNotifierConfig{
				WebhookURL:  "",
				Enabled:     false,
				RateLimitMs: 1000,
				Headers:     map[string]string{},
			},
		},
		Retention: RetentionConfig{
			Enabled:            true,
			AlertRetentionDays: 90,
			SweepInterval:      time.Hour,
		},
		Intel: IntelConfig{
			Enabled:      false,
			FeedURL:      "",
			FeedInterval: time.Hour,
		},
		NATS: NATSConfig{
			Enabled:        false,
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: false,
			StoreDir:       "./data/nats/jetstream",
			SubjectPrefix:  "auspex.alerts",
		},
	}
}
