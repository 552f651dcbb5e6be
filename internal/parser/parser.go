// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package parser

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/samvasq/auspex/internal/models"
)

// Resolver resolves an IP address to a geographic location. Implementations
// return nil when the address is private, reserved, or cannot be resolved;
// resolution does not fail with an error.
type Resolver interface {
	Resolve(ctx context.Context, ip string) *models.Geolocation
}

// namedPattern pairs a log format name with its compiled expression.
type namedPattern struct {
	name string
	re   *regexp.Regexp
}

// patterns are tried in order; the first match claims the line.
var patterns = []namedPattern{
	// Apache/Nginx access log
	{"apache_access", regexp.MustCompile(`(?P<ip>\S+) .*? \[(?P<timestamp>.*?)\] .*?"\w+ (?P<path>\S+)`)},
	// SSH authentication log
	{"ssh_auth", regexp.MustCompile(`(?P<timestamp>\w+ \d+ \d+:\d+:\d+) .*? (?P<event>Accepted|Failed) .*? (?P<source_ip>\d+\.\d+\.\d+\.\d+) .*? user (?P<username>\S+)`)},
	// Generic authentication log
	{"auth_log", regexp.MustCompile(`(?i)(?P<timestamp>[\d\-:T.]+).*?(?P<source_ip>\d+\.\d+\.\d+\.\d+).*?user[:\s]+(?P<username>\S+).*?(?P<status>success|failed|denied|accepted|rejected)`)},
	// Windows event log style
	{"windows_event", regexp.MustCompile(`(?i)(?P<timestamp>[\d\-:T.]+).*?Source IP[:\s]+(?P<source_ip>\d+\.\d+\.\d+\.\d+).*?User[:\s]+(?P<username>\S+).*?Status[:\s]+(?P<status>\w+)`)},
	// JSON structured log
	{"json_log", regexp.MustCompile(`(?is)\{.*?"timestamp"[:\s]+"(?P<timestamp>[^"]+)".*?"ip"[:\s]+"(?P<source_ip>[^"]+)".*?"user"[:\s]+"(?P<username>[^"]+)".*?"status"[:\s]+"(?P<status>[^"]+)".*?\}`)},
	// Simple format: timestamp IP username event status
	{"simple_log", regexp.MustCompile(`(?P<timestamp>[\d\-:T.]+)\s+(?P<source_ip>\d+\.\d+\.\d+\.\d+)\s+(?P<username>\S+)\s+(?P<event_type>\w+)\s+(?P<status>\w+)`)},
}

// fallbackIP extracts a bare IPv4 address from lines no pattern claims.
var fallbackIP = regexp.MustCompile(`\b(\d+\.\d+\.\d+\.\d+)\b`)

// Parser normalizes raw log lines into LogEntry values.
type Parser struct {
	geo Resolver
}

// New creates a Parser. geo may be nil, in which case entries are not
// enriched with location data.
func New(geo Resolver) *Parser {
	return &Parser{geo: geo}
}

// ParseLine normalizes a single raw log line. sourceFile tags the entry
// with its origin and may be empty. Returns nil for blank lines and for
// lines neither a pattern nor the IPv4 fallback can claim.
func (p *Parser) ParseLine(ctx context.Context, line, sourceFile string) *models.LogEntry {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	fields := extractFields(line)
	if fields == nil {
		return nil
	}

	ts, ok := ParseTimestamp(fields["timestamp"])
	if !ok {
		ts = time.Now().UTC()
	}

	entry := &models.LogEntry{
		Timestamp:  ts,
		SourceIP:   fields["source_ip"],
		Username:   fields["username"],
		EventType:  models.NormalizeEventType(fields["event_type"]),
		Status:     models.NormalizeStatus(fields["status"]),
		RawLog:     line,
		SourceFile: sourceFile,
	}
	p.Enrich(ctx, entry)
	return entry
}

// Enrich fills the entry's geolocation fields from its source IP. It is a
// no-op when no resolver is configured, the entry has no source IP, or the
// address does not resolve. Exported for ingestion paths that accept
// structured events without going through ParseLine.
func (p *Parser) Enrich(ctx context.Context, entry *models.LogEntry) {
	if p.geo == nil || entry.SourceIP == "" {
		return
	}
	loc := p.geo.Resolve(ctx, entry.SourceIP)
	if loc == nil {
		return
	}
	if loc.CountryCode != "" {
		cc := loc.CountryCode
		entry.CountryCode = &cc
	}
	lat, lon := loc.Latitude, loc.Longitude
	entry.Latitude = &lat
	entry.Longitude = &lon
}

// extractFields runs the line through each pattern in order and returns the
// named captures of the first match. The ssh-style event capture is folded
// into event_type/status, and the Apache ip capture maps to source_ip.
// When no pattern matches, a line containing a bare IPv4 still yields a
// minimal unknown-type event; otherwise nil.
func extractFields(line string) map[string]string {
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		fields := make(map[string]string, len(m))
		for i, name := range p.re.SubexpNames() {
			if i == 0 || name == "" {
				continue
			}
			fields[name] = m[i]
		}
		if ip, ok := fields["ip"]; ok && fields["source_ip"] == "" {
			fields["source_ip"] = ip
		}
		if ev, ok := fields["event"]; ok {
			if _, explicit := fields["event_type"]; !explicit {
				switch strings.ToLower(ev) {
				case "accepted", "success":
					fields["status"] = "success"
					fields["event_type"] = "login"
				case "failed", "denied", "rejected":
					fields["status"] = "failed"
					fields["event_type"] = "login"
				default:
					fields["event_type"] = strings.ToLower(ev)
				}
			}
		}
		return fields
	}

	if m := fallbackIP.FindStringSubmatch(line); m != nil {
		return map[string]string{
			"source_ip":  m[1],
			"event_type": "unknown",
			"status":     "unknown",
		}
	}
	return nil
}
