// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package models

// APIResponse represents the standardized response wrapper used by all HTTP
// endpoints.
//
// Status field values:
//   - "success": Request completed, see Data
//   - "error": Request failed, see Message and Code
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "message": "Ingested 42 log entries",
//	  "data": {"ingested": 42, "alerts_generated": 3}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "message": "alert not found",
//	  "code": "NOT_FOUND"
//	}
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// IngestResult summarizes one ingestion call. LogEntryID is set only for
// single structured submissions; SourceFile only for file uploads.
type IngestResult struct {
	Ingested        int    `json:"ingested"`
	AlertsGenerated int    `json:"alerts_generated"`
	LogEntryID      *int64 `json:"log_entry_id,omitempty"`
	SourceFile      string `json:"source_file,omitempty"`
}

// EventSearchResult wraps a page of log entries with pagination echoes.
type EventSearchResult struct {
	Logs   []LogEntry `json:"logs"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// AlertListResult wraps a page of alerts.
type AlertListResult struct {
	Alerts []Alert `json:"alerts"`
	Count  int     `json:"count"`
}
