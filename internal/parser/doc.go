// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

/*
Package parser normalizes raw log lines into the common event schema.

Six format patterns are tried in a fixed order (Apache/Nginx access, SSH
authentication, generic auth, Windows event, JSON, simple space-delimited);
the first matching pattern claims the line. Lines no pattern claims fall
back to a bare IPv4 scan, and lines without even that are dropped.
Extracted timestamps go through a multi-format ladder; values that cannot
be parsed fall back to the current time.

Parsed entries are enriched with geolocation data when a Resolver is
configured and the source address resolves.
*/
package parser
