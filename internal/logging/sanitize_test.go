// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package logging

import (
	"strings"
	"testing"
)

func TestSanitizeLogLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "2024-01-15 10:00:00 1.2.3.4 alice login failed", "2024-01-15 10:00:00 1.2.3.4 alice login failed"},
		{"newline injection", "line one\n{\"level\":\"info\",\"message\":\"forged\"}", "line one {\"level\":\"info\",\"message\":\"forged\"}"},
		{"carriage return", "before\rafter", "before after"},
		{"tab", "col1\tcol2", "col1 col2"},
		{"escape sequence", "text\x1b[31mred\x1b[0m", "text [31mred [0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeLogLine(tt.input); got != tt.want {
				t.Errorf("SanitizeLogLine(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeLogLineTruncates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 1000)
	got := SanitizeLogLine(long)

	if len(got) != maxEchoedLineLength+3 {
		t.Errorf("expected truncation to %d+3 chars, got %d", maxEchoedLineLength, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got[len(got)-5:])
	}
}

func TestSanitizeHeaderValue(t *testing.T) {
	t.Parallel()

	got := SanitizeHeaderValue("report\r\nSet-Cookie: x=1")
	if strings.ContainsAny(got, "\r\n") {
		t.Errorf("expected CR/LF removed, got %q", got)
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than max", "short", 10, "short"},
		{"exactly max", "exact", 5, "exact"},
		{"longer than max", "toolongvalue", 4, "tool..."},
		{"empty", "", 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
