// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateGeo(); err != nil {
		return err
	}

	if err := c.validateDetection(); err != nil {
		return err
	}

	if err := c.validateRetention(); err != nil {
		return err
	}

	if err := c.validateIntel(); err != nil {
		return err
	}

	if err := c.validateNATS(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("HTTP_READ_TIMEOUT must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP_WRITE_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// validateDatabase validates database configuration
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative (0 = all cores)")
	}
	return nil
}

// Pagination bounds
const (
	minPageSize = 1
	maxPageSize = 10000
)

// validateAPI validates API pagination and rate limiting configuration
func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < minPageSize || c.API.DefaultPageSize > maxPageSize {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be between %d and %d", minPageSize, maxPageSize)
	}
	if c.API.MaxPageSize < minPageSize || c.API.MaxPageSize > maxPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be between %d and %d", minPageSize, maxPageSize)
	}
	if c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must not exceed API_MAX_PAGE_SIZE")
	}
	return c.validateRateLimits()
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateRateLimits validates rate limiting configuration bounds.
// Ensures rate limit values are within sensible ranges to prevent
// misconfiguration that could lead to DoS or ineffective protection.
func (c *Config) validateRateLimits() error {
	if c.API.RateLimitDisabled {
		return nil
	}

	if c.API.RateLimitReqs < minRateLimitRequests || c.API.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.API.RateLimitWindow < minRateLimitWindow || c.API.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateGeo validates geolocation configuration
func (c *Config) validateGeo() error {
	if c.Geo.CacheSize < 0 {
		return fmt.Errorf("GEO_CACHE_SIZE must be non-negative")
	}

	if !c.Geo.FallbackEnabled {
		return nil
	}

	if c.Geo.FallbackURL == "" {
		return fmt.Errorf("GEO_FALLBACK_URL is required when GEO_FALLBACK_ENABLED=true")
	}
	if err := validateEndpointURL(c.Geo.FallbackURL); err != nil {
		return fmt.Errorf("GEO_FALLBACK_URL is invalid: %w", err)
	}
	if c.Geo.FallbackTimeout <= 0 {
		return fmt.Errorf("GEO_FALLBACK_TIMEOUT must be positive")
	}
	return nil
}

// Business hours are UTC hours of day, end exclusive.
const (
	minBusinessHour = 0
	maxBusinessHour = 24
)

// validateDetection validates detection rule configuration
func (c *Config) validateDetection() error {
	if err := c.validateBusinessHours(); err != nil {
		return err
	}
	if err := c.validateBruteForce(); err != nil {
		return err
	}
	return c.validateWebhook()
}

// validateBusinessHours validates the business hours window
func (c *Config) validateBusinessHours() error {
	start := c.Detection.BusinessHoursStart
	end := c.Detection.BusinessHoursEnd
	if start < minBusinessHour || start > maxBusinessHour {
		return fmt.Errorf("BUSINESS_HOURS_START must be between 0 and 24")
	}
	if end < minBusinessHour || end > maxBusinessHour {
		return fmt.Errorf("BUSINESS_HOURS_END must be between 0 and 24")
	}
	if start >= end {
		return fmt.Errorf("BUSINESS_HOURS_START must be before BUSINESS_HOURS_END")
	}
	return nil
}

// validateBruteForce validates brute force detection thresholds
func (c *Config) validateBruteForce() error {
	if c.Detection.BruteForceThreshold < 1 {
		return fmt.Errorf("BRUTE_FORCE_THRESHOLD must be at least 1")
	}
	if c.Detection.BruteForceWindow <= 0 {
		return fmt.Errorf("BRUTE_FORCE_WINDOW must be positive")
	}
	return nil
}

// validateWebhook validates webhook notifier configuration (only if enabled)
func (c *Config) validateWebhook() error {
	if !c.Detection.Webhook.Enabled {
		return nil
	}

	if c.Detection.Webhook.WebhookURL == "" {
		return fmt.Errorf("WEBHOOK_URL is required when WEBHOOK_ENABLED=true")
	}
	if err := validateEndpointURL(c.Detection.Webhook.WebhookURL); err != nil {
		return fmt.Errorf("WEBHOOK_URL is invalid: %w", err)
	}
	if c.Detection.Webhook.RateLimitMs < 0 {
		return fmt.Errorf("WEBHOOK_RATE_LIMIT_MS must be non-negative")
	}
	return nil
}

// Retention bounds
const (
	minRetentionDays = 1
	maxRetentionDays = 3650
)

// validateRetention validates retention configuration (only if enabled)
func (c *Config) validateRetention() error {
	if !c.Retention.Enabled {
		return nil
	}

	if c.Retention.AlertRetentionDays < minRetentionDays || c.Retention.AlertRetentionDays > maxRetentionDays {
		return fmt.Errorf("ALERT_RETENTION_DAYS must be between %d and %d", minRetentionDays, maxRetentionDays)
	}
	if c.Retention.SweepInterval < time.Minute {
		return fmt.Errorf("RETENTION_SWEEP_INTERVAL must be at least 1 minute")
	}
	return nil
}

// validateIntel validates blacklist feed configuration (only if enabled)
func (c *Config) validateIntel() error {
	if !c.Intel.Enabled {
		return nil
	}

	if c.Intel.FeedURL == "" {
		return fmt.Errorf("INTEL_FEED_URL is required when INTEL_ENABLED=true")
	}
	if err := validateEndpointURL(c.Intel.FeedURL); err != nil {
		return fmt.Errorf("INTEL_FEED_URL is invalid: %w", err)
	}
	if c.Intel.FeedInterval < time.Minute {
		return fmt.Errorf("INTEL_FEED_INTERVAL must be at least 1 minute")
	}
	return nil
}

// validateNATS validates NATS configuration (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}

	if c.NATS.SubjectPrefix == "" {
		return fmt.Errorf("NATS_SUBJECT_PREFIX is required when NATS_ENABLED=true")
	}
	if c.NATS.EmbeddedServer {
		return nil
	}
	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateEndpointURL validates that a URL is properly formatted for an
// HTTP/HTTPS endpoint. Paths and query parameters are allowed, since fallback
// geolocation and webhook endpoints commonly carry both.
func validateEndpointURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("host is required")
	}

	return nil
}

// validateNATSURL validates that the NATS URL is properly formatted
// Supports: nats://, tls://, and ws:// schemes with IP addresses/hostnames and optional ports
func validateNATSURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	validSchemes := map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}
	if !validSchemes[parsedURL.Scheme] {
		return fmt.Errorf("scheme must be nats, tls, ws, or wss, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:4222, 192.168.1.100:4222)")
	}

	return nil
}

// IsProduction returns true if the application is running in production mode.
// Production mode is determined by the ENVIRONMENT environment variable.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}
