// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package intel

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/samvasq/auspex/internal/config"
	"github.com/samvasq/auspex/internal/logging"
	"github.com/samvasq/auspex/internal/metrics"
)

const (
	// defaultHTTPTimeout is the timeout for feed requests.
	defaultHTTPTimeout = 30 * time.Second

	// defaultRetryAttempts is the number of retries after a failed fetch.
	defaultRetryAttempts = 3

	// defaultRetryDelay is the initial delay between retries (doubles
	// each attempt).
	defaultRetryDelay = 5 * time.Second

	// maxFeedBody caps the feed response size (10 MB).
	maxFeedBody = 10 * 1024 * 1024

	updaterUserAgent = "auspex/1.0 (+https://github.com/samvasq/auspex)"
)

// FeedStatus tracks the state of blacklist feed refreshes.
type FeedStatus struct {
	// LastAttempt is when a refresh was last tried.
	LastAttempt time.Time `json:"last_attempt"`

	// LastSuccess is when a refresh last completed.
	LastSuccess time.Time `json:"last_success"`

	// LastError is the last error encountered (empty if none).
	LastError string `json:"last_error,omitempty"`

	// DataHash is the SHA256 hash of the last fetched feed body.
	DataHash string `json:"data_hash"`

	// EntryCount is the number of addresses parsed from the last feed.
	EntryCount int `json:"entry_count"`
}

// Updater periodically refreshes a Blacklist from a remote plaintext
// feed. A refresh whose body hash matches the previous fetch is a no-op.
type Updater struct {
	cfg       config.IntelConfig
	blacklist *Blacklist
	client    *http.Client
	status    FeedStatus

	retryAttempts int
	retryDelay    time.Duration

	stopChan chan struct{}
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

// NewUpdater creates a feed updater for the given blacklist.
func NewUpdater(blacklist *Blacklist, cfg config.IntelConfig) *Updater {
	return &Updater{
		cfg:           cfg,
		blacklist:     blacklist,
		client:        &http.Client{Timeout: defaultHTTPTimeout},
		retryAttempts: defaultRetryAttempts,
		retryDelay:    defaultRetryDelay,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the periodic refresh routine. It is a no-op when the
// feed is disabled or no URL is configured.
func (u *Updater) Start(ctx context.Context) error {
	if !u.cfg.Enabled || u.cfg.FeedURL == "" {
		logging.Info().Msg("Blacklist feed updates disabled")
		return nil
	}

	logging.Info().
		Str("url", u.cfg.FeedURL).
		Dur("interval", u.cfg.FeedInterval).
		Msg("Starting blacklist feed updates")

	u.wg.Add(1)
	go u.updateLoop(ctx)

	return nil
}

// Stop halts the refresh routine and waits for it to exit.
func (u *Updater) Stop() {
	close(u.stopChan)
	u.wg.Wait()
	logging.Info().Msg("Blacklist feed updater stopped")
}

// RunWithContext runs the refresh loop in the foreground until the
// context is cancelled. Implements the supervision tree's service
// contract; a disabled feed idles rather than returning, so the
// supervisor does not treat it as a completed service.
func (u *Updater) RunWithContext(ctx context.Context) error {
	if !u.cfg.Enabled || u.cfg.FeedURL == "" {
		logging.Info().Msg("Blacklist feed updates disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	logging.Info().
		Str("url", u.cfg.FeedURL).
		Dur("interval", u.cfg.FeedInterval).
		Msg("Starting blacklist feed updates")

	u.wg.Add(1)
	u.updateLoop(ctx)
	return ctx.Err()
}

func (u *Updater) updateLoop(ctx context.Context) {
	defer u.wg.Done()

	if err := u.UpdateNow(ctx); err != nil {
		logging.Warn().Err(err).Msg("Initial blacklist feed refresh failed")
	}

	ticker := time.NewTicker(u.cfg.FeedInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-u.stopChan:
			return
		case <-ticker.C:
			if err := u.UpdateNow(ctx); err != nil {
				logging.Warn().Err(err).Msg("Scheduled blacklist feed refresh failed")
			}
		}
	}
}

// UpdateNow fetches the feed immediately and merges it into the
// blacklist. An unchanged feed body leaves the blacklist as is.
func (u *Updater) UpdateNow(ctx context.Context) error {
	u.mu.Lock()
	u.status.LastAttempt = time.Now()
	u.mu.Unlock()

	data, err := u.fetchWithRetry(ctx, u.cfg.FeedURL)
	if err != nil {
		u.mu.Lock()
		u.status.LastError = err.Error()
		u.mu.Unlock()
		metrics.RecordFeedUpdate("failure", 0)
		return fmt.Errorf("fetching blacklist feed: %w", err)
	}

	hash := sha256.Sum256(data)
	hashStr := hex.EncodeToString(hash[:])

	u.mu.RLock()
	previousHash := u.status.DataHash
	u.mu.RUnlock()

	if hashStr == previousHash {
		logging.Debug().Str("hash", hashStr[:16]).Msg("Blacklist feed unchanged")
		u.mu.Lock()
		u.status.LastSuccess = time.Now()
		u.status.LastError = ""
		u.mu.Unlock()
		metrics.RecordFeedUpdate("unchanged", u.blacklist.Len())
		return nil
	}

	addrs := parseFeed(data)
	u.blacklist.SetFeed(addrs)

	u.mu.Lock()
	u.status.LastSuccess = time.Now()
	u.status.LastError = ""
	u.status.DataHash = hashStr
	u.status.EntryCount = len(addrs)
	u.mu.Unlock()

	metrics.RecordFeedUpdate("success", u.blacklist.Len())

	logging.Info().
		Int("entries", len(addrs)).
		Int("total", u.blacklist.Len()).
		Str("hash", hashStr[:16]).
		Msg("Blacklist feed updated")

	return nil
}

// Status returns a copy of the current feed status.
func (u *Updater) Status() FeedStatus {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.status
}

// fetchWithRetry fetches the feed with exponential backoff retries.
func (u *Updater) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	delay := u.retryDelay

	for attempt := 0; attempt <= u.retryAttempts; attempt++ {
		if attempt > 0 {
			logging.Info().
				Int("attempt", attempt).
				Int("max_attempts", u.retryAttempts).
				Dur("delay", delay).
				Msg("Retrying blacklist feed fetch")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		data, err := u.fetch(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		logging.Warn().Err(err).Int("attempt", attempt+1).Msg("Blacklist feed fetch attempt failed")
	}

	return nil, fmt.Errorf("all %d attempts failed: %w", u.retryAttempts+1, lastErr)
}

// fetch performs a single HTTP GET request.
func (u *Updater) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", updaterUserAgent)
	req.Header.Set("Accept", "text/plain")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return data, nil
}

// parseFeed extracts addresses from a plaintext feed body. Blank lines
// and '#' comments (whole-line or trailing) are ignored, as are lines
// that do not parse as IP addresses.
func parseFeed(data []byte) []netip.Addr {
	var addrs []netip.Addr

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		addr, err := netip.ParseAddr(line)
		if err != nil {
			continue
		}
		addrs = append(addrs, addr)
	}

	return addrs
}
