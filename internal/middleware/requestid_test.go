// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samvasq/auspex/internal/logging"
)

func TestRequestID_GeneratesID(t *testing.T) {
	var seenCtx context.Context
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenCtx = r.Context()
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil))

	id := GetRequestID(seenCtx)
	if id == "" {
		t.Fatal("Expected a request ID in the handler context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != id {
		t.Errorf("Expected response header %q, got %q", id, got)
	}
	if got := logging.RequestIDFromContext(seenCtx); got != id {
		t.Errorf("Expected logging context request ID %q, got %q", id, got)
	}
	if logging.CorrelationIDFromContext(seenCtx) == "" {
		t.Error("Expected a correlation ID in the logging context")
	}
}

func TestRequestID_HonorsUpstreamHeader(t *testing.T) {
	var seenID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.Header.Set("X-Request-ID", "upstream-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seenID != "upstream-123" {
		t.Errorf("Expected upstream ID preserved, got %q", seenID)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "upstream-123" {
		t.Errorf("Expected upstream ID echoed, got %q", got)
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	var ids []string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, GetRequestID(r.Context()))
	}))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	if len(ids) != 2 || ids[0] == ids[1] {
		t.Errorf("Expected two distinct IDs, got %v", ids)
	}
}

func TestGetRequestID_MissingFromContext(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
}
