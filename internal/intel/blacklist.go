// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package intel

import (
	"net/netip"
	"strings"
	"sync"

	"github.com/samvasq/auspex/internal/logging"
	"github.com/samvasq/auspex/internal/metrics"
)

// Blacklist is a set of IP addresses checked during detection. It merges
// a static set from configuration with a feed set the Updater replaces
// on each refresh. Lookups are O(1) per address family.
type Blacklist struct {
	static map[netip.Addr]struct{}
	feed   map[netip.Addr]struct{}
	mu     sync.RWMutex
}

// NewBlacklist builds a Blacklist from configured entries. Entries are
// whitespace-trimmed; ones that do not parse as IP addresses are logged
// and skipped.
func NewBlacklist(entries []string) *Blacklist {
	b := &Blacklist{
		static: make(map[netip.Addr]struct{}, len(entries)),
		feed:   make(map[netip.Addr]struct{}),
	}

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			logging.Warn().Str("entry", entry).Msg("Skipping unparseable blacklist entry")
			continue
		}
		b.static[addr] = struct{}{}
	}

	metrics.BlacklistEntries.Set(float64(len(b.static)))

	return b
}

// Contains reports whether ip is blacklisted. Strings that do not parse
// as IP addresses are never blacklisted.
func (b *Blacklist) Contains(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if _, ok := b.static[addr]; ok {
		return true
	}
	_, ok := b.feed[addr]
	return ok
}

// SetFeed replaces the feed set. The static set is unaffected.
func (b *Blacklist) SetFeed(addrs []netip.Addr) {
	feed := make(map[netip.Addr]struct{}, len(addrs))
	for _, addr := range addrs {
		feed[addr] = struct{}{}
	}

	b.mu.Lock()
	b.feed = feed
	b.mu.Unlock()
}

// Len returns the number of distinct blacklisted addresses.
func (b *Blacklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := len(b.static)
	for addr := range b.feed {
		if _, ok := b.static[addr]; !ok {
			n++
		}
	}
	return n
}
