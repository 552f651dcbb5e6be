// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

/*
Package cache provides thread-safe in-memory data structures used on the
ingestion hot path.

Two structures live here:

  - LRUCache: a generic least-recently-used cache with TTL expiration.
    Geolocation results are cached under the source IP so repeat offenders
    (the common case in security logs) cost one lookup instead of one per
    event.

  - AhoCorasick: a multi-pattern string matcher. Detection rules scan
    event text for keyword sets (privilege-escalation terms) in a single
    pass instead of one substring search per keyword.

Both are safe for concurrent use.
*/
package cache
