// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package intel

import (
	"fmt"
	"net/netip"
	"sync"
	"testing"
)

func TestBlacklist_Contains(t *testing.T) {
	b := NewBlacklist([]string{"10.0.0.100", "192.168.1.200", "172.16.0.50"})

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.0.0.100", true},
		{"192.168.1.200", true},
		{"172.16.0.50", true},
		{"10.0.0.101", false},
		{"8.8.8.8", false},
		{"", false},
		{"not-an-ip", false},
	}

	for _, tt := range tests {
		if got := b.Contains(tt.ip); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}
}

func TestNewBlacklist_TrimsAndSkipsInvalid(t *testing.T) {
	b := NewBlacklist([]string{" 10.0.0.100 ", "", "bogus", "999.999.1.1", "\t203.0.113.5\t"})

	if !b.Contains("10.0.0.100") {
		t.Error("Expected trimmed entry 10.0.0.100 to be blacklisted")
	}
	if !b.Contains("203.0.113.5") {
		t.Error("Expected trimmed entry 203.0.113.5 to be blacklisted")
	}
	if got := b.Len(); got != 2 {
		t.Errorf("Expected 2 entries after skipping invalid ones, got %d", got)
	}
}

func TestBlacklist_CanonicalIPv6(t *testing.T) {
	b := NewBlacklist([]string{"2001:DB8::1"})

	if !b.Contains("2001:db8::1") {
		t.Error("Expected lowercase form to match")
	}
	if !b.Contains("2001:db8:0:0:0:0:0:1") {
		t.Error("Expected expanded form to match")
	}
}

func TestBlacklist_SetFeed(t *testing.T) {
	b := NewBlacklist([]string{"10.0.0.100"})

	feed1 := []netip.Addr{
		netip.MustParseAddr("198.51.100.1"),
		netip.MustParseAddr("198.51.100.2"),
	}
	b.SetFeed(feed1)

	if !b.Contains("10.0.0.100") {
		t.Error("Expected static entry to survive a feed update")
	}
	if !b.Contains("198.51.100.1") || !b.Contains("198.51.100.2") {
		t.Error("Expected feed entries to be blacklisted")
	}
	if got := b.Len(); got != 3 {
		t.Errorf("Expected 3 entries, got %d", got)
	}

	// A second feed replaces the first wholesale.
	b.SetFeed([]netip.Addr{netip.MustParseAddr("198.51.100.3")})

	if b.Contains("198.51.100.1") {
		t.Error("Expected old feed entry to be gone after replacement")
	}
	if !b.Contains("198.51.100.3") {
		t.Error("Expected new feed entry to be blacklisted")
	}
	if !b.Contains("10.0.0.100") {
		t.Error("Expected static entry to survive feed replacement")
	}
}

func TestBlacklist_LenCountsDistinct(t *testing.T) {
	b := NewBlacklist([]string{"10.0.0.100", "203.0.113.5"})
	b.SetFeed([]netip.Addr{
		netip.MustParseAddr("10.0.0.100"), // overlaps static
		netip.MustParseAddr("198.51.100.1"),
	})

	if got := b.Len(); got != 3 {
		t.Errorf("Expected 3 distinct entries, got %d", got)
	}
}

func TestBlacklist_ConcurrentAccess(t *testing.T) {
	b := NewBlacklist([]string{"10.0.0.100"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Contains("10.0.0.100")
				b.Contains(fmt.Sprintf("198.51.100.%d", n))
			}
		}(i)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.SetFeed([]netip.Addr{netip.MustParseAddr(fmt.Sprintf("198.51.100.%d", n))})
				b.Len()
			}
		}(i)
	}
	wg.Wait()

	if !b.Contains("10.0.0.100") {
		t.Error("Expected static entry to survive concurrent feed updates")
	}
}
