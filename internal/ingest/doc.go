// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

// Package ingest orchestrates the ingestion pipeline: normalize input into
// log entries, persist them, run detection, and persist the resulting
// alerts, all inside a single transaction per request.
//
// Raw text and file uploads go through the parser line by line; structured
// submissions are converted directly, with the same timestamp handling and
// geolocation enrichment. Detection runs on the ingesting transaction so
// correlation rules see earlier rows of the same batch before commit.
// Unparseable lines and rule failures never abort a batch; a storage
// failure rolls the whole batch back. Notifiers hear about new alerts only
// after the transaction commits.
package ingest
