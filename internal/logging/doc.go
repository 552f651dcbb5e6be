// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

// Package logging provides centralized zerolog-based structured logging for Auspex.
//
// The package wraps a single global zerolog logger configured once at startup:
// JSON output for production, console output for development. All components
// log through the package-level helpers so field names and levels stay
// consistent across the service.
//
// # Quick Start
//
//	import "github.com/samvasq/auspex/internal/logging"
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("source_ip", ip).Msg("Event ingested")
//	logging.Error().Err(err).Msg("Detection failed")
//
//	// Context-aware logging (request/correlation IDs from middleware)
//	logging.Ctx(ctx).Info().Str("alert_id", id).Msg("Alert created")
//
// # Conventions
//
// Always terminate log chains with .Msg() or .Send(); an unterminated chain
// emits nothing. Prefer structured fields over Msgf formatting. Raw log lines
// are attacker-controlled input: pass them through SanitizeLogLine before
// echoing them into our own output.
//
// The slog adapter bridges libraries that require *slog.Logger (sutureslog)
// onto the same zerolog backend.
package logging
