// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/samvasq/auspex/internal/metrics"
)

func requestCount(t *testing.T, method, endpoint, status string) float64 {
	t.Helper()
	counter, err := metrics.APIRequestsTotal.GetMetricWithLabelValues(method, endpoint, status)
	if err != nil {
		t.Fatalf("Failed to resolve counter: %v", err)
	}
	return testutil.ToFloat64(counter)
}

func TestPrometheus_RecordsRequest(t *testing.T) {
	before := requestCount(t, http.MethodGet, "/plain", "200")

	handler := Prometheus(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/plain", nil))

	if got := requestCount(t, http.MethodGet, "/plain", "200"); got != before+1 {
		t.Errorf("Expected counter %v, got %v", before+1, got)
	}
}

func TestPrometheus_UsesRoutePattern(t *testing.T) {
	before := requestCount(t, http.MethodGet, "/items/{id}", "200")

	r := chi.NewRouter()
	r.Use(Prometheus)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))

	if got := requestCount(t, http.MethodGet, "/items/{id}", "200"); got != before+1 {
		t.Errorf("Expected the chi pattern label incremented, got %v (before %v)", got, before)
	}
	if got := requestCount(t, http.MethodGet, "/items/42", "200"); got != 0 {
		t.Errorf("Expected no raw-path label, got %v", got)
	}
}

func TestPrometheus_CapturesErrorStatus(t *testing.T) {
	before := requestCount(t, http.MethodPost, "/failing", "500")

	handler := Prometheus(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/failing", nil))

	if got := requestCount(t, http.MethodPost, "/failing", "500"); got != before+1 {
		t.Errorf("Expected counter %v, got %v", before+1, got)
	}
}
