// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package detection

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/samvasq/auspex/internal/config"
	"github.com/samvasq/auspex/internal/logging"
	"github.com/samvasq/auspex/internal/models"
)

const (
	webhookTimeout          = 10 * time.Second
	defaultWebhookRateLimit = time.Second
)

// webhookPayload is the JSON body posted for each alert.
type webhookPayload struct {
	Alert     *models.Alert `json:"alert"`
	EventType string        `json:"event_type"`
	Timestamp time.Time     `json:"timestamp"`
	Source    string        `json:"source"`
}

// WebhookNotifier POSTs each alert to a configured URL with optional
// custom headers. Deliveries are rate limited client-side so a burst of
// alerts cannot hammer the receiving endpoint.
type WebhookNotifier struct {
	url     string
	headers map[string]string
	enabled bool
	limiter *rate.Limiter
	client  *http.Client
}

// NewWebhookNotifier builds the notifier from config. The rate limit
// defaults to one delivery per second when unset.
func NewWebhookNotifier(cfg config.WebhookNotifierConfig) *WebhookNotifier {
	interval := time.Duration(cfg.RateLimitMs) * time.Millisecond
	if interval <= 0 {
		interval = defaultWebhookRateLimit
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &WebhookNotifier{
		url:     cfg.WebhookURL,
		headers: headers,
		enabled: cfg.Enabled,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		client:  &http.Client{Timeout: webhookTimeout},
	}
}

func (n *WebhookNotifier) Name() string {
	return "webhook"
}

// Enabled reports whether the notifier is configured and switched on.
func (n *WebhookNotifier) Enabled() bool {
	return n.enabled && n.url != ""
}

// Send posts the alert, waiting for the rate limiter first. The wait is
// abandoned when the context is cancelled.
func (n *WebhookNotifier) Send(ctx context.Context, alert *models.Alert) error {
	if !n.Enabled() {
		return nil
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("webhook rate limit wait aborted: %w", err)
	}

	payload := webhookPayload{
		Alert:     alert,
		EventType: "detection_alert",
		Timestamp: time.Now().UTC(),
		Source:    "auspex",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range n.headers {
		req.Header.Set(k, v)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Debug().Err(err).Msg("failed to close webhook response body")
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
