// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package eventbus

import (
	"context"

	"github.com/samvasq/auspex/internal/models"
)

// AlertNotifier adapts the publisher to the detection package's
// notifier contract, so bus publishing rides the same announcement path
// as webhook delivery.
type AlertNotifier struct {
	publisher *Publisher
}

// NewAlertNotifier wraps a publisher for alert manager registration.
func NewAlertNotifier(pub *Publisher) (*AlertNotifier, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	return &AlertNotifier{publisher: pub}, nil
}

func (n *AlertNotifier) Name() string {
	return "nats"
}

// Enabled reports whether a publisher is attached. Construction
// guarantees one, so a registered notifier is always enabled.
func (n *AlertNotifier) Enabled() bool {
	return n.publisher != nil
}

// Send publishes the alert to the bus.
func (n *AlertNotifier) Send(ctx context.Context, alert *models.Alert) error {
	return n.publisher.PublishAlert(ctx, alert)
}
