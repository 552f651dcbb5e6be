// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

/*
Package geo resolves source IP addresses to geographic locations.

Resolution is layered: non-routable addresses (private, loopback,
link-local) are rejected outright, then an in-process LRU cache is
consulted, then a local MaxMind GeoLite2 City database when one is
configured, and finally a public HTTP geolocation API. The HTTP fallback
sits behind a circuit breaker so a degraded upstream cannot stall
ingestion; every failure degrades to "no location" rather than an error.

Definitive results are cached, including misses. Transient fallback
failures are not, so a recovering upstream is retried on the next lookup
of the same address.

The package also provides Distance, the haversine great-circle distance
used to score travel plausibility between consecutive logins.
*/
package geo
