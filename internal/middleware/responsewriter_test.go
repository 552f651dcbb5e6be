// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriter_CapturesStatusAndBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := newResponseWriter(rec)

	ww.WriteHeader(http.StatusAccepted)
	if _, err := ww.Write([]byte("queued")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if ww.statusCode != http.StatusAccepted {
		t.Errorf("Expected status 202, got %d", ww.statusCode)
	}
	if ww.bytes != int64(len("queued")) {
		t.Errorf("Expected %d bytes recorded, got %d", len("queued"), ww.bytes)
	}
	if rec.Code != http.StatusAccepted {
		t.Errorf("Expected status forwarded to underlying writer, got %d", rec.Code)
	}
}

func TestResponseWriter_DefaultsToOK(t *testing.T) {
	ww := newResponseWriter(httptest.NewRecorder())
	if _, err := ww.Write([]byte("ok")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if ww.statusCode != http.StatusOK {
		t.Errorf("Expected implicit 200, got %d", ww.statusCode)
	}
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := newResponseWriter(rec)

	ww.WriteHeader(http.StatusNotFound)
	ww.WriteHeader(http.StatusInternalServerError)

	if ww.statusCode != http.StatusNotFound {
		t.Errorf("Expected first status to stick, got %d", ww.statusCode)
	}
}

func TestResponseWriter_FlushPassthrough(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := newResponseWriter(rec)

	ww.Flush()
	if !rec.Flushed {
		t.Error("Expected Flush forwarded to the underlying writer")
	}
}

func TestResponseWriter_HijackUnsupported(t *testing.T) {
	ww := newResponseWriter(httptest.NewRecorder())

	// httptest.ResponseRecorder cannot be hijacked; the wrapper must
	// report that instead of panicking.
	if _, _, err := ww.Hijack(); err == nil {
		t.Error("Expected an error hijacking a non-hijackable writer")
	}
}
