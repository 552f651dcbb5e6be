// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

/*
Package database manages the embedded DuckDB store.

The package owns the connection, the log_entries schema, and log entry
access. Alert storage lives in the detection package and shares the same
connection; both tables use sequence-backed BIGINT ids because DuckDB
has no LastInsertId, so inserts read the id back with RETURNING.

Writes that must be atomic run inside WithTx; the Querier interface lets
the same statement helpers run against the pool or a transaction. Reads
within a transaction see that transaction's uncommitted rows, which is
what batch ingestion relies on for detection windows.

The database file's parent directory is created on open. ":memory:"
opens an in-memory database, used throughout the tests.
*/
package database
