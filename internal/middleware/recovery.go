// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/goccy/go-json"

	"github.com/samvasq/auspex/internal/logging"
	"github.com/samvasq/auspex/internal/models"
)

// Recovery converts handler panics into a 500 envelope response instead of
// tearing down the connection. The panic value and stack land in the log
// with the request's tracing fields. http.ErrAbortHandler passes through
// untouched per its contract.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logging.CtxError(r.Context()).
				Interface("panic", rec).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Bytes("stack", debug.Stack()).
				Msg("Handler panic recovered")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			body := models.APIResponse{
				Status:  "error",
				Message: "Internal server error",
				Code:    "INTERNAL_ERROR",
			}
			if err := json.NewEncoder(w).Encode(body); err != nil {
				logging.CtxErr(r.Context(), err).Msg("Failed to write recovery response")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
