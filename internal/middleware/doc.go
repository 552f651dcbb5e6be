// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

// Package middleware provides the HTTP middleware applied by the API
// router: request ID propagation, structured access logging, panic
// recovery, Prometheus instrumentation, and gzip compression.
//
// All middleware use the chi-compatible func(http.Handler) http.Handler
// shape. CORS and rate limiting come from the chi ecosystem and are
// configured in the api package.
//
// The response writer wrapper used for status capture passes through
// http.Hijacker and http.Flusher so WebSocket upgrades and streaming
// responses keep working behind the instrumented chain.
package middleware
