// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

// Package config provides centralized configuration management for Auspex.
//
// Configuration is loaded with Koanf v2 from three layered sources, in
// ascending precedence:
//
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables
//
// Environment variables use flat names mapped explicitly to config paths
// (HTTP_PORT -> server.port, IP_BLACKLIST -> detection.ip_blacklist);
// unmapped variables are ignored so unrelated environment noise cannot
// leak into the configuration. DATABASE_URL is accepted for compatibility
// with older deployments and is reduced to a filesystem path.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Cannot load configuration")
//	}
//
// Config is immutable after Load and safe for concurrent reads.
package config
