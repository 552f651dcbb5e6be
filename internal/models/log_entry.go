// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package models

import (
	"strings"
	"time"
)

// EventType classifies what a log event describes. The set below covers the
// values the parser and detection rules know about; parsed logs may carry
// other lowercased values and those are preserved as-is.
type EventType string

// Canonical event types.
const (
	EventTypeLogin               EventType = "login"
	EventTypeLogout              EventType = "logout"
	EventTypeAuthentication      EventType = "authentication"
	EventTypePrivilegeEscalation EventType = "privilege_escalation"
	EventTypeAdminAccess         EventType = "admin_access"
	EventTypeSudo                EventType = "sudo"
	EventTypeSu                  EventType = "su"
	EventTypeFileAccess          EventType = "file_access"
	EventTypeUnknown             EventType = "unknown"
)

// NormalizeEventType lowercases and trims an event type value.
// Empty input normalizes to EventTypeAuthentication, the default
// classification for parsed lines that carry no explicit type.
func NormalizeEventType(s string) EventType {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return EventTypeAuthentication
	}
	return EventType(s)
}

// Status is the outcome recorded on a log event.
type Status string

// Canonical statuses.
const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusDenied  Status = "denied"
	StatusUnknown Status = "unknown"
)

// NormalizeStatus lowercases and trims a status value. Empty input
// normalizes to StatusUnknown.
func NormalizeStatus(s string) Status {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StatusUnknown
	}
	return Status(s)
}

// LogEntry represents a single normalized log event.
//
// Entries are produced by the parser from raw log lines (or accepted
// directly as structured submissions), enriched with geolocation data when
// the source IP resolves, and persisted before detection rules run.
//
// Key Fields:
//   - ID: Sequence-assigned database identifier (valid after insert)
//   - Timestamp: Event time in UTC (parsed from the line, or receive time)
//   - SourceIP/Username: May be empty when the line carried neither
//   - EventType/Status: Lowercased classifications (see EventType, Status)
//   - RawLog: The original line, unmodified
//   - SourceFile: Optional origin tag (file basename for uploads)
//
// Geolocation fields are nil when the IP is private, unresolvable, or absent.
type LogEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// Event fields
	SourceIP  string    `json:"source_ip,omitempty"`
	Username  string    `json:"username,omitempty"`
	EventType EventType `json:"event_type"`
	Status    Status    `json:"status"`
	RawLog    string    `json:"raw_log"`

	// Origin tracking
	SourceFile string `json:"source_file,omitempty"`

	// Geolocation enrichment
	CountryCode *string  `json:"country_code,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// HasLocation reports whether the entry carries resolved coordinates.
func (e *LogEntry) HasLocation() bool {
	return e.Latitude != nil && e.Longitude != nil
}
