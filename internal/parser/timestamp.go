// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package parser

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// maxEpochSeconds bounds numeric timestamps to 9999-12-31T23:59:59.
const maxEpochSeconds = 253402300799

// logLayouts are the zone-less formats tried after ISO 8601 and epoch
// parsing, in order. The syslog layout carries no year; the current year
// is substituted.
var logLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/Jan/2006:15:04:05",
	"Jan _2 15:04:05",
	"2006-01-02 15:04:05.999999",
}

// ParseTimestamp parses the timestamp formats commonly found in logs:
// ISO 8601 / RFC 3339, Unix epoch seconds (integer or float), and the
// layouts in logLayouts. Zone-less values are interpreted as UTC. The
// second return is false when no format matches.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.UTC); err == nil {
		return t, true
	}

	if sec, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(sec) || math.Abs(sec) > maxEpochSeconds {
			return time.Time{}, false
		}
		whole, frac := math.Modf(sec)
		return time.Unix(int64(whole), int64(frac*float64(time.Second))).UTC(), true
	}

	for _, layout := range logLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			t = t.AddDate(time.Now().UTC().Year(), 0, 0)
		}
		return t, true
	}

	return time.Time{}, false
}
