// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

// Package api provides the HTTP surface: a Chi router mounting the
// ingestion, event search, alert lifecycle, dashboard, export, and
// WebSocket endpoints under /api/v1, plus /health and /metrics.
//
// All JSON endpoints share one envelope:
//
//	{"status": "success|error", "message": ..., "data": ..., "code": ...}
//
// Handlers translate storage errors into envelope codes: unknown
// identifiers become 404 NOT_FOUND, malformed input becomes 400 with
// BAD_REQUEST or VALIDATION_ERROR, and storage failures become 500
// INTERNAL_ERROR. Parse failures during ingestion are not API errors;
// unparseable lines are counted and skipped.
package api
