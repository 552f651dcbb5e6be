// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package geo

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/oschwald/geoip2-golang"
	"github.com/sony/gobreaker/v2"

	"github.com/samvasq/auspex/internal/cache"
	"github.com/samvasq/auspex/internal/config"
	"github.com/samvasq/auspex/internal/logging"
	"github.com/samvasq/auspex/internal/metrics"
	"github.com/samvasq/auspex/internal/models"
)

const (
	// breakerFailureThreshold is the consecutive-failure count that opens
	// the fallback circuit.
	breakerFailureThreshold = 5
	// breakerCooldown is how long the circuit stays open before a probe
	// request is allowed through.
	breakerCooldown = 30 * time.Second

	// maxFallbackBody caps the fallback response size (1 MB).
	maxFallbackBody = 1 << 20

	userAgent = "auspex/1.0 (+https://github.com/samvasq/auspex)"
)

// ipAPIResponse is the subset of the ip-api.com JSON payload the resolver
// consumes. Status is "success" or "fail".
type ipAPIResponse struct {
	Status      string  `json:"status"`
	CountryCode string  `json:"countryCode"`
	Country     string  `json:"country"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Service resolves IP addresses to locations using a local MaxMind
// database with an HTTP API fallback. All lookups go through an LRU
// cache; the fallback path is guarded by a circuit breaker.
//
// Service never returns lookup errors. An address that cannot be
// resolved, for whatever reason, yields a nil location and ingestion
// proceeds without enrichment.
type Service struct {
	reader          *geoip2.Reader
	client          *http.Client
	breaker         *gobreaker.CircuitBreaker[*models.Geolocation]
	cache           *cache.LRUCache[*models.Geolocation]
	fallbackURL     string
	fallbackEnabled bool
}

// New builds a Service from configuration.
//
// A missing MaxMind database file disables local lookups without error;
// a present but unreadable file logs a warning and likewise falls back
// to HTTP-only resolution.
func New(cfg config.GeoConfig) *Service {
	s := &Service{
		client:          &http.Client{Timeout: cfg.FallbackTimeout},
		cache:           cache.NewLRUCache[*models.Geolocation](cfg.CacheSize, cfg.CacheTTL),
		fallbackURL:     strings.TrimRight(cfg.FallbackURL, "/"),
		fallbackEnabled: cfg.FallbackEnabled && cfg.FallbackURL != "",
	}

	s.breaker = gobreaker.NewCircuitBreaker[*models.Geolocation](gobreaker.Settings{
		Name:        "geo-fallback",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetBreakerState(name, int(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Geolocation fallback circuit state changed")
		},
	})

	if cfg.MaxMindDBPath != "" {
		if _, err := os.Stat(cfg.MaxMindDBPath); err != nil {
			logging.Info().
				Str("path", cfg.MaxMindDBPath).
				Msg("MaxMind database not found, using HTTP fallback only")
		} else if reader, err := geoip2.Open(cfg.MaxMindDBPath); err != nil {
			logging.Warn().
				Err(err).
				Str("path", cfg.MaxMindDBPath).
				Msg("Failed to open MaxMind database, using HTTP fallback only")
		} else {
			s.reader = reader
			logging.Info().
				Str("path", cfg.MaxMindDBPath).
				Msg("MaxMind database loaded")
		}
	}

	return s
}

// Resolve returns the location for ip, or nil when the address is
// invalid, non-routable, or cannot be resolved by any configured source.
// Definitive misses are cached so repeat lookups skip the network.
func (s *Service) Resolve(ctx context.Context, ip string) *models.Geolocation {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return nil
	}
	if isNonRoutable(addr) {
		return nil
	}

	key := addr.String()
	if loc, ok := s.cache.Get(key); ok {
		metrics.GeoCacheHits.Inc()
		return loc
	}
	metrics.GeoCacheMisses.Inc()

	if loc := s.lookupLocal(addr); loc != nil {
		s.cache.Add(key, loc)
		return loc
	}

	if !s.fallbackEnabled {
		s.cache.Add(key, nil)
		return nil
	}

	start := time.Now()
	loc, err := s.breaker.Execute(func() (*models.Geolocation, error) {
		return s.lookupFallback(ctx, key)
	})
	metrics.GeoFallbackDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		// Transient: transport failure or open circuit. Not cached, so the
		// next lookup of this address retries.
		metrics.GeoFallbackErrors.Inc()
		logging.Debug().Err(err).Str("ip", key).Msg("Fallback geolocation lookup failed")
		return nil
	}

	s.cache.Add(key, loc)
	return loc
}

// CacheStats reports cache hit and miss counters and the current entry
// count.
func (s *Service) CacheStats() (hits, misses int64, size int) {
	return s.cache.Stats()
}

// Close releases the MaxMind reader. The Service must not be used after
// Close.
func (s *Service) Close() error {
	if s.reader == nil {
		return nil
	}
	return s.reader.Close()
}

// lookupLocal consults the MaxMind database. A zero-value record (the
// reader's way of signaling an address it has no data for) is treated as
// a miss so the HTTP fallback gets a chance.
func (s *Service) lookupLocal(addr netip.Addr) *models.Geolocation {
	if s.reader == nil {
		return nil
	}

	record, err := s.reader.City(net.IP(addr.AsSlice()))
	if err != nil || record == nil {
		return nil
	}
	if record.Country.IsoCode == "" {
		return nil
	}

	return &models.Geolocation{
		CountryCode: record.Country.IsoCode,
		CountryName: record.Country.Names["en"],
		City:        record.City.Names["en"],
		Latitude:    record.Location.Latitude,
		Longitude:   record.Location.Longitude,
	}
}

// lookupFallback queries the HTTP geolocation API. A (nil, nil) return is
// a definitive miss: the upstream answered but has no data for the
// address. Errors are reserved for transport and protocol failures,
// which feed the circuit breaker.
func (s *Service) lookupFallback(ctx context.Context, ip string) (*models.Geolocation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.fallbackURL+"/"+ip, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("building fallback request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fallback lookup for %s: %w", ip, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fallback lookup for %s: unexpected status %d", ip, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFallbackBody))
	if err != nil {
		return nil, fmt.Errorf("reading fallback response: %w", err)
	}

	var payload ipAPIResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding fallback response: %w", err)
	}
	if payload.Status != "success" {
		return nil, nil
	}

	return &models.Geolocation{
		CountryCode: payload.CountryCode,
		CountryName: payload.Country,
		City:        payload.City,
		Latitude:    payload.Lat,
		Longitude:   payload.Lon,
	}, nil
}

// isNonRoutable reports whether addr falls in a range that can never
// have a public geolocation: private, loopback, link-local, or
// unspecified.
func isNonRoutable(addr netip.Addr) bool {
	return addr.IsPrivate() ||
		addr.IsLoopback() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsUnspecified()
}
