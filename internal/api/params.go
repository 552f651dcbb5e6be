// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/samvasq/auspex/internal/models"
)

// queryDateLayouts are the accepted forms for start_date/end_date query
// parameters. Layouts without a zone are taken as UTC.
var queryDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// parseDateParam parses the named query parameter as an ISO 8601
// timestamp. Returns nil when the parameter is absent and an error when
// it is present but malformed.
func parseDateParam(r *http.Request, key string) (*time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}

	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}

	return nil, fmt.Errorf("invalid %s %q: expected an ISO 8601 date or timestamp", key, value)
}

// parseBoolParam parses an optional boolean query parameter. Returns nil
// when absent so callers can distinguish "unset" from false.
func parseBoolParam(r *http.Request, key string) (*bool, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: expected true or false", key, value)
	}

	return &b, nil
}

// pageDefaults returns the configured default and maximum page sizes,
// falling back to the stock values when the handler has no config.
func (h *Handler) pageDefaults() (def, max int) {
	if h.config == nil {
		return 100, 1000
	}
	return h.config.API.DefaultPageSize, h.config.API.MaxPageSize
}

// clampPage normalises limit and offset against the configured bounds.
func (h *Handler) clampPage(limit, offset int) (int, int) {
	def, max := h.pageDefaults()
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// buildEventFilter assembles an event search filter from query
// parameters. A malformed date is the only rejection.
func (h *Handler) buildEventFilter(r *http.Request) (models.EventFilter, error) {
	limit, offset := h.clampPage(getIntParam(r, "limit", 0), getIntParam(r, "offset", 0))

	filter := models.EventFilter{
		SourceIP:  r.URL.Query().Get("source_ip"),
		Username:  r.URL.Query().Get("username"),
		EventType: r.URL.Query().Get("event_type"),
		Status:    r.URL.Query().Get("status"),
		Limit:     limit,
		Offset:    offset,
	}

	start, err := parseDateParam(r, "start_date")
	if err != nil {
		return filter, err
	}
	end, err := parseDateParam(r, "end_date")
	if err != nil {
		return filter, err
	}
	filter.Start = start
	filter.End = end

	return filter, nil
}

// buildAlertFilter assembles an alert listing filter from query
// parameters. Resolved is tri-state: absent means both.
func (h *Handler) buildAlertFilter(r *http.Request) (models.AlertFilter, error) {
	limit, offset := h.clampPage(getIntParam(r, "limit", 0), getIntParam(r, "offset", 0))

	filter := models.AlertFilter{
		Severity: r.URL.Query().Get("severity"),
		RuleName: r.URL.Query().Get("rule_name"),
		Limit:    limit,
		Offset:   offset,
	}

	resolved, err := parseBoolParam(r, "resolved")
	if err != nil {
		return filter, err
	}
	filter.Resolved = resolved

	start, err := parseDateParam(r, "start_date")
	if err != nil {
		return filter, err
	}
	end, err := parseDateParam(r, "end_date")
	if err != nil {
		return filter, err
	}
	filter.Start = start
	filter.End = end

	return filter, nil
}
