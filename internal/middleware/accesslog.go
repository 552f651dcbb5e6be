// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package middleware

import (
	"net/http"
	"time"

	"github.com/samvasq/auspex/internal/logging"
)

// slowRequestThreshold promotes a completed request to a warning.
const slowRequestThreshold = time.Second

// accessLogSkip lists paths polled by probes and scrapers; logging every
// hit would drown the signal.
var accessLogSkip = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// AccessLog writes one structured log line per completed request with the
// method, path, status, response size, and duration. Requests slower than
// slowRequestThreshold log at warn level.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if accessLogSkip[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ww := newResponseWriter(w)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		evt := logging.CtxInfo(r.Context())
		if duration > slowRequestThreshold {
			evt = logging.CtxWarn(r.Context())
		}
		evt.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.statusCode).
			Int64("bytes", ww.bytes).
			Dur("duration", duration).
			Str("remote_addr", r.RemoteAddr).
			Msg("Request completed")
	})
}
