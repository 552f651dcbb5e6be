// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package api

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/samvasq/auspex/internal/config"
)

func TestGetIntParam(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		key      string
		def      int
		expected int
	}{
		{"present", "/?limit=50", "limit", 100, 50},
		{"absent uses default", "/", "limit", 100, 100},
		{"not a number uses default", "/?limit=abc", "limit", 100, 100},
		{"negative passes through", "/?offset=-5", "offset", 0, -5},
		{"zero", "/?limit=0", "limit", 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			got := getIntParam(req, tt.key, tt.def)
			if got != tt.expected {
				t.Errorf("getIntParam(%q) = %d, want %d", tt.key, got, tt.expected)
			}
		})
	}
}

func TestParseDateParam(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Time
	}{
		{"rfc3339 zulu", "2024-05-01T12:00:00Z", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"rfc3339 offset converts to utc", "2024-05-01T14:00:00+02:00", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"naive timestamp is utc", "2024-05-01T12:00:00", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"space separated", "2024-05-01 12:00:00", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"bare date is midnight utc", "2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/?start_date="+url.QueryEscape(tt.value), nil)
			got, err := parseDateParam(req, "start_date")
			if err != nil {
				t.Fatalf("parseDateParam(%q) error: %v", tt.value, err)
			}
			if got == nil {
				t.Fatalf("parseDateParam(%q) = nil", tt.value)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("parseDateParam(%q) = %v, want %v", tt.value, got, tt.expected)
			}
			if got.Location() != time.UTC {
				t.Errorf("parseDateParam(%q) location = %v, want UTC", tt.value, got.Location())
			}
		})
	}
}

func TestParseDateParam_Absent(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	got, err := parseDateParam(req, "start_date")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("absent parameter should yield nil, got %v", got)
	}
}

func TestParseDateParam_Malformed(t *testing.T) {
	for _, value := range []string{"yesterday", "05/01/2024", "2024-13-45"} {
		req := httptest.NewRequest("GET", "/?end_date="+value, nil)
		_, err := parseDateParam(req, "end_date")
		if err == nil {
			t.Errorf("parseDateParam(%q) should fail", value)
			continue
		}
		// The error names the offending parameter so the API message is
		// self-explanatory.
		if !strings.Contains(err.Error(), "end_date") {
			t.Errorf("error %q should name end_date", err.Error())
		}
	}
}

func TestParseBoolParam(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"true", "true", true},
		{"false", "false", false},
		{"numeric true", "1", true},
		{"uppercase", "TRUE", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/?resolved="+tt.value, nil)
			got, err := parseBoolParam(req, "resolved")
			if err != nil {
				t.Fatalf("parseBoolParam(%q) error: %v", tt.value, err)
			}
			if got == nil || *got != tt.expected {
				t.Errorf("parseBoolParam(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestParseBoolParam_Absent(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	got, err := parseBoolParam(req, "resolved")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("absent parameter should yield nil, got %v", *got)
	}
}

func TestParseBoolParam_Malformed(t *testing.T) {
	req := httptest.NewRequest("GET", "/?resolved=yes", nil)
	_, err := parseBoolParam(req, "resolved")
	if err == nil {
		t.Fatal("parseBoolParam(\"yes\") should fail")
	}
	if !strings.Contains(err.Error(), "resolved") {
		t.Errorf("error %q should name resolved", err.Error())
	}
}

func TestClampPage_StockDefaults(t *testing.T) {
	h := &Handler{}

	tests := []struct {
		name                  string
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{"zero limit uses default", 0, 0, 100, 0},
		{"negative limit uses default", -1, 0, 100, 0},
		{"in range passes through", 250, 40, 250, 40},
		{"over maximum is capped", 5000, 0, 1000, 0},
		{"negative offset floors to zero", 50, -10, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := h.clampPage(tt.limit, tt.offset)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("clampPage(%d, %d) = (%d, %d), want (%d, %d)",
					tt.limit, tt.offset, limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestClampPage_ConfiguredBounds(t *testing.T) {
	h := &Handler{config: &config.Config{
		API: config.APIConfig{DefaultPageSize: 25, MaxPageSize: 200},
	}}

	limit, offset := h.clampPage(0, -3)
	if limit != 25 {
		t.Errorf("default limit = %d, want 25", limit)
	}
	if offset != 0 {
		t.Errorf("offset = %d, want 0", offset)
	}

	limit, _ = h.clampPage(5000, 0)
	if limit != 200 {
		t.Errorf("capped limit = %d, want 200", limit)
	}
}

func TestBuildEventFilter(t *testing.T) {
	h := &Handler{}

	req := httptest.NewRequest("GET",
		"/?source_ip=203.0.113.1&username=alice&event_type=login&status=failed"+
			"&start_date=2024-05-01T00:00:00Z&end_date=2024-05-02&limit=50&offset=10", nil)

	filter, err := h.buildEventFilter(req)
	if err != nil {
		t.Fatalf("buildEventFilter error: %v", err)
	}

	if filter.SourceIP != "203.0.113.1" {
		t.Errorf("SourceIP = %q, want 203.0.113.1", filter.SourceIP)
	}
	if filter.Username != "alice" {
		t.Errorf("Username = %q, want alice", filter.Username)
	}
	if filter.EventType != "login" {
		t.Errorf("EventType = %q, want login", filter.EventType)
	}
	if filter.Status != "failed" {
		t.Errorf("Status = %q, want failed", filter.Status)
	}
	if filter.Limit != 50 || filter.Offset != 10 {
		t.Errorf("pagination = (%d, %d), want (50, 10)", filter.Limit, filter.Offset)
	}
	if filter.Start == nil || !filter.Start.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Start = %v, want 2024-05-01T00:00:00Z", filter.Start)
	}
	if filter.End == nil || !filter.End.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("End = %v, want 2024-05-02T00:00:00Z", filter.End)
	}
}

func TestBuildEventFilter_Defaults(t *testing.T) {
	h := &Handler{}

	filter, err := h.buildEventFilter(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("buildEventFilter error: %v", err)
	}

	if filter.Limit != 100 || filter.Offset != 0 {
		t.Errorf("pagination = (%d, %d), want (100, 0)", filter.Limit, filter.Offset)
	}
	if filter.Start != nil || filter.End != nil {
		t.Error("date bounds should be nil when absent")
	}
	if filter.SourceIP != "" || filter.Username != "" {
		t.Error("string filters should be empty when absent")
	}
}

func TestBuildEventFilter_BadDate(t *testing.T) {
	h := &Handler{}

	_, err := h.buildEventFilter(httptest.NewRequest("GET", "/?start_date=nope", nil))
	if err == nil {
		t.Fatal("malformed start_date should fail")
	}
}

func TestBuildAlertFilter(t *testing.T) {
	h := &Handler{}

	req := httptest.NewRequest("GET",
		"/?severity=Critical&rule_name=brute_force_login&resolved=false"+
			"&start_date=2024-05-01&end_date=2024-05-31&limit=20&offset=5", nil)

	filter, err := h.buildAlertFilter(req)
	if err != nil {
		t.Fatalf("buildAlertFilter error: %v", err)
	}

	if filter.Severity != "Critical" {
		t.Errorf("Severity = %q, want Critical", filter.Severity)
	}
	if filter.RuleName != "brute_force_login" {
		t.Errorf("RuleName = %q, want brute_force_login", filter.RuleName)
	}
	if filter.Resolved == nil || *filter.Resolved {
		t.Errorf("Resolved = %v, want false", filter.Resolved)
	}
	if filter.Limit != 20 || filter.Offset != 5 {
		t.Errorf("pagination = (%d, %d), want (20, 5)", filter.Limit, filter.Offset)
	}
	if filter.Start == nil || filter.End == nil {
		t.Fatal("date bounds should be set")
	}
}

func TestBuildAlertFilter_ResolvedTriState(t *testing.T) {
	h := &Handler{}

	filter, err := h.buildAlertFilter(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("buildAlertFilter error: %v", err)
	}
	if filter.Resolved != nil {
		t.Errorf("absent resolved should stay nil, got %v", *filter.Resolved)
	}

	filter, err = h.buildAlertFilter(httptest.NewRequest("GET", "/?resolved=true", nil))
	if err != nil {
		t.Fatalf("buildAlertFilter error: %v", err)
	}
	if filter.Resolved == nil || !*filter.Resolved {
		t.Errorf("Resolved = %v, want true", filter.Resolved)
	}
}

func TestBuildAlertFilter_BadResolved(t *testing.T) {
	h := &Handler{}

	_, err := h.buildAlertFilter(httptest.NewRequest("GET", "/?resolved=maybe", nil))
	if err == nil {
		t.Fatal("malformed resolved should fail")
	}
	if !strings.Contains(err.Error(), "resolved") {
		t.Errorf("error %q should name resolved", err.Error())
	}
}
