// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package models

// LogSubmission represents a structured log entry submitted via the API.
// All fields are optional: a submission with no timestamp gets the receive
// time, and missing classifications fall back to the parser defaults
// (event_type "authentication", status "unknown").
//
// Timestamp is a string so clients can send any of the supported layouts
// (RFC 3339, epoch seconds, syslog, and the other parser formats).
type LogSubmission struct {
	Timestamp  string `json:"timestamp" validate:"omitempty,max=64"`
	SourceIP   string `json:"source_ip" validate:"omitempty,ip"`
	Username   string `json:"username" validate:"omitempty,max=255"`
	EventType  string `json:"event_type" validate:"omitempty,max=100"`
	Status     string `json:"status" validate:"omitempty,max=50"`
	RawLog     string `json:"raw_log" validate:"omitempty,max=65536"`
	SourceFile string `json:"source_file" validate:"omitempty,max=255"`
}

// AnalystActionRequest carries the analyst name for acknowledge and resolve
// actions. An empty analyst defaults to "System".
type AnalystActionRequest struct {
	Analyst string `json:"analyst" validate:"omitempty,max=255"`
}

// NotesRequest carries analyst notes for an alert. Notes overwrite any
// previous value.
type NotesRequest struct {
	Notes string `json:"notes" validate:"required,max=10000"`
}
