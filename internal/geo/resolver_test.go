// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samvasq/auspex/internal/config"
	"github.com/samvasq/auspex/internal/parser"
)

var _ parser.Resolver = (*Service)(nil)

func newTestService(t *testing.T, url string, timeout time.Duration) *Service {
	t.Helper()
	return New(config.GeoConfig{
		FallbackEnabled: true,
		FallbackURL:     url,
		FallbackTimeout: timeout,
		CacheSize:       64,
		CacheTTL:        time.Minute,
	})
}

func TestResolve_NonRoutable(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL, 2*time.Second)
	defer svc.Close()

	addresses := []string{
		"10.1.2.3",
		"172.16.5.5",
		"192.168.1.1",
		"127.0.0.1",
		"169.254.10.10",
		"0.0.0.0",
		"::1",
		"fe80::1",
		"fc00::1234",
	}
	for _, ip := range addresses {
		if loc := svc.Resolve(context.Background(), ip); loc != nil {
			t.Errorf("Expected nil location for %s, got %+v", ip, loc)
		}
	}

	if n := requests.Load(); n != 0 {
		t.Errorf("Expected no fallback requests for non-routable addresses, got %d", n)
	}
}

func TestResolve_InvalidAddress(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL, 2*time.Second)
	defer svc.Close()

	for _, ip := range []string{"", "not-an-ip", "999.1.1.1", "203.0.113"} {
		if loc := svc.Resolve(context.Background(), ip); loc != nil {
			t.Errorf("Expected nil location for %q, got %+v", ip, loc)
		}
	}

	if n := requests.Load(); n != 0 {
		t.Errorf("Expected no fallback requests for invalid addresses, got %d", n)
	}
}

func TestResolve_FallbackSuccess(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/203.0.113.77" {
			t.Errorf("Expected path /203.0.113.77, got %s", r.URL.Path)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("Expected a User-Agent header")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"success","country":"Netherlands","countryCode":"NL","city":"Amsterdam","lat":52.3676,"lon":4.9041}`)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL, 2*time.Second)
	defer svc.Close()

	loc := svc.Resolve(context.Background(), "203.0.113.77")
	if loc == nil {
		t.Fatal("Expected a location, got nil")
	}
	if loc.CountryCode != "NL" {
		t.Errorf("Expected country code NL, got %q", loc.CountryCode)
	}
	if loc.CountryName != "Netherlands" {
		t.Errorf("Expected country Netherlands, got %q", loc.CountryName)
	}
	if loc.City != "Amsterdam" {
		t.Errorf("Expected city Amsterdam, got %q", loc.City)
	}
	if loc.Latitude != 52.3676 || loc.Longitude != 4.9041 {
		t.Errorf("Expected coordinates (52.3676, 4.9041), got (%v, %v)", loc.Latitude, loc.Longitude)
	}

	// Second lookup is served from cache.
	again := svc.Resolve(context.Background(), "203.0.113.77")
	if again == nil || again.CountryCode != "NL" {
		t.Fatalf("Expected cached location, got %+v", again)
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("Expected 1 fallback request, got %d", n)
	}

	hits, misses, size := svc.CacheStats()
	if hits != 1 || misses != 1 || size != 1 {
		t.Errorf("Expected cache stats hits=1 misses=1 size=1, got hits=%d misses=%d size=%d", hits, misses, size)
	}
}

func TestResolve_FallbackMissIsCached(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"fail","message":"reserved range"}`)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL, 2*time.Second)
	defer svc.Close()

	for i := 0; i < 3; i++ {
		if loc := svc.Resolve(context.Background(), "203.0.113.9"); loc != nil {
			t.Fatalf("Expected nil location, got %+v", loc)
		}
	}

	if n := requests.Load(); n != 1 {
		t.Errorf("Expected 1 fallback request for a cached miss, got %d", n)
	}
}

func TestResolve_FallbackServerErrorNotCached(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL, 2*time.Second)
	defer svc.Close()

	if loc := svc.Resolve(context.Background(), "203.0.113.10"); loc != nil {
		t.Fatalf("Expected nil location, got %+v", loc)
	}
	if loc := svc.Resolve(context.Background(), "203.0.113.10"); loc != nil {
		t.Fatalf("Expected nil location, got %+v", loc)
	}

	// Transient failures are retried, not cached.
	if n := requests.Load(); n != 2 {
		t.Errorf("Expected 2 fallback requests, got %d", n)
	}
}

func TestResolve_CircuitBreakerOpens(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL, 2*time.Second)
	defer svc.Close()

	// Distinct addresses so the cache never short-circuits the lookups.
	for i := 1; i <= 8; i++ {
		ip := fmt.Sprintf("203.0.113.%d", i)
		if loc := svc.Resolve(context.Background(), ip); loc != nil {
			t.Fatalf("Expected nil location for %s, got %+v", ip, loc)
		}
	}

	if n := requests.Load(); n != breakerFailureThreshold {
		t.Errorf("Expected the circuit to open after %d failures, server saw %d requests", breakerFailureThreshold, n)
	}
}

func TestResolve_FallbackDisabled(t *testing.T) {
	svc := New(config.GeoConfig{
		FallbackEnabled: false,
		FallbackURL:     "http://ip-api.example/json",
		FallbackTimeout: time.Second,
		CacheSize:       16,
		CacheTTL:        time.Minute,
	})
	defer svc.Close()

	if loc := svc.Resolve(context.Background(), "203.0.113.20"); loc != nil {
		t.Fatalf("Expected nil location with fallback disabled, got %+v", loc)
	}

	// The miss is definitive and cached.
	if _, _, size := svc.CacheStats(); size != 1 {
		t.Errorf("Expected 1 cached entry, got %d", size)
	}
}

func TestResolve_FallbackTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, `{"status":"success","countryCode":"NL"}`)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL, 50*time.Millisecond)
	defer svc.Close()

	if loc := svc.Resolve(context.Background(), "203.0.113.30"); loc != nil {
		t.Fatalf("Expected nil location on timeout, got %+v", loc)
	}
}

func TestNew_MissingDatabase(t *testing.T) {
	svc := New(config.GeoConfig{
		MaxMindDBPath:   filepath.Join(t.TempDir(), "GeoLite2-City.mmdb"),
		FallbackEnabled: false,
		CacheSize:       16,
		CacheTTL:        time.Minute,
	})
	defer svc.Close()

	if svc.reader != nil {
		t.Error("Expected no reader for a missing database file")
	}
	if loc := svc.Resolve(context.Background(), "203.0.113.40"); loc != nil {
		t.Errorf("Expected nil location, got %+v", loc)
	}
}

func TestNew_CorruptDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.mmdb")
	if err := os.WriteFile(path, []byte("not a maxmind database"), 0o600); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	svc := New(config.GeoConfig{
		MaxMindDBPath:   path,
		FallbackEnabled: false,
		CacheSize:       16,
		CacheTTL:        time.Minute,
	})

	if svc.reader != nil {
		t.Error("Expected no reader for a corrupt database file")
	}
	if err := svc.Close(); err != nil {
		t.Errorf("Expected Close to succeed without a reader, got %v", err)
	}
}
