// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package logging

import (
	"strings"
	"unicode"
)

// maxEchoedLineLength caps how much of a raw log line we echo back into
// our own log output.
const maxEchoedLineLength = 256

// SanitizeLogLine prepares an untrusted raw log line for inclusion in our
// own log output. Ingested lines are attacker-controlled: embedded newlines
// and terminal control sequences could otherwise forge log records or
// corrupt console output. Control characters are replaced with spaces and
// the result is truncated.
func SanitizeLogLine(line string) string {
	if line == "" {
		return ""
	}

	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, line)

	return TruncateString(sanitized, maxEchoedLineLength)
}

// SanitizeHeaderValue strips CR/LF from a value destined for an HTTP header,
// such as a user-supplied export filename fragment.
func SanitizeHeaderValue(v string) string {
	v = strings.ReplaceAll(v, "\r", "")
	return strings.ReplaceAll(v, "\n", "")
}

// TruncateString truncates a string to a maximum length, appending an
// ellipsis marker when truncation occurred.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
