// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

//go:build !nats

package eventbus

import (
	"context"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/samvasq/auspex/internal/models"
)

// Publisher is a stub when NATS support is compiled out. Build with
// -tags=nats to enable alert publishing.
type Publisher struct {
	breaker *gobreaker.CircuitBreaker[interface{}]
}

// NewPublisher returns ErrBusNotEnabled when NATS support is compiled
// out.
func NewPublisher(cfg PublisherConfig, logger interface{}) (*Publisher, error) {
	return nil, ErrBusNotEnabled
}

// SetCircuitBreaker records the breaker; the stub never calls it.
func (p *Publisher) SetCircuitBreaker(cb *gobreaker.CircuitBreaker[interface{}]) {
	p.breaker = cb
}

// Publish is a stub that returns ErrBusNotEnabled.
func (p *Publisher) Publish(ctx context.Context, subject string, msg interface{}) error {
	return ErrBusNotEnabled
}

// PublishAlert is a stub that returns ErrBusNotEnabled.
func (p *Publisher) PublishAlert(ctx context.Context, alert *models.Alert) error {
	return ErrBusNotEnabled
}

// Close is a no-op stub.
func (p *Publisher) Close() error {
	return nil
}
