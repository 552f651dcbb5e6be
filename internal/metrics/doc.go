// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

/*
Package metrics exposes Prometheus collectors for every subsystem.

All collectors register against the default registry via promauto, so
importing the package is enough to make them scrapeable from /metrics.
Recording helpers (RecordDBQuery, RecordRule, RecordIngest, ...) wrap the
common multi-collector updates; hot paths may also update the exported
collectors directly.
*/
package metrics
