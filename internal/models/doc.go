// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

/*
Package models defines data structures for the Auspex application.

This package contains all data models used throughout the application:
database schemas, API request/response structures, and internal data
transfer objects. It serves as the single source of truth for data
structure definitions.

Key Components:

  - LogEntry: Core database model for normalized log events
  - Alert: Persistent record of a detection rule firing, with lifecycle state
  - Geolocation: Resolved geographic data for an IP address
  - APIResponse: Standardized API response wrapper
  - EventFilter / AlertFilter: Query filters for search and listing

Model Categories:

1. Database Models:
  - LogEntry: Parsed and enriched log events
  - Alert: Detection alerts with acknowledge/resolve lifecycle

2. API Request/Response Models:
  - LogSubmission: Structured log ingestion request
  - APIResponse: Standard response envelope
  - IngestResult, EventSearchResult, AlertListResult: Operation payloads

3. Enumerations:
  - Severity: Critical, High, Medium, Low
  - RuleName: The five detection rules
  - EventType / Status: Canonical event classifications (open sets;
    arbitrary lowercased values from parsed logs are preserved)

Thread Safety:

All models are data structures only: safe for concurrent reads, no
internal mutexes. JSON serialization uses snake_case tags with omitempty
for optional pointer fields.

See Also:

  - internal/database: Database operations using these models
  - internal/api: API handlers returning these models
  - internal/detection: Rules producing Alert rows
*/
package models
