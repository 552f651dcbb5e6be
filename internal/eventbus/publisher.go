// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

//go:build nats

package eventbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/samvasq/auspex/internal/metrics"
	"github.com/samvasq/auspex/internal/models"
)

// Publisher sends alert envelopes to NATS through Watermill. The
// connection reconnects automatically and buffers publishes while
// disconnected; an optional circuit breaker fails fast when the broker
// stays unreachable.
type Publisher struct {
	publisher     message.Publisher
	breaker       *gobreaker.CircuitBreaker[interface{}]
	subjectPrefix string
	mu            sync.RWMutex
	closed        bool
	logger        watermill.LoggerAdapter
}

// NewPublisher creates a Watermill NATS publisher for alert fan-out.
// Publishing uses core NATS; JetStream stays out of the publish path
// because alerts are notifications, not the system of record.
func NewPublisher(cfg PublisherConfig, logger watermill.LoggerAdapter) (*Publisher, error) {
	if logger == nil {
		logger = NewLoggerAdapter()
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.ReconnectBufSize(cfg.ReconnectBuffer),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
		natsgo.ErrorHandler(func(nc *natsgo.Conn, sub *natsgo.Subscription, err error) {
			// sub is nil for connection-level errors on a pure publisher.
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			logger.Error("NATS error", err, watermill.LogFields{
				"subject": subject,
			})
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create alert publisher: %w", err)
	}

	return &Publisher{
		publisher:     pub,
		subjectPrefix: cfg.SubjectPrefix,
		logger:        logger,
	}, nil
}

// SetCircuitBreaker guards publish calls with the breaker. Publishes
// while the breaker is open return gobreaker.ErrOpenState immediately.
func (p *Publisher) SetCircuitBreaker(cb *gobreaker.CircuitBreaker[interface{}]) {
	p.breaker = cb
}

// Publish sends one message on the given subject.
func (p *Publisher) Publish(ctx context.Context, subject string, msg *message.Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPublisherClosed
	}
	p.mu.RUnlock()

	var err error
	if p.breaker != nil {
		_, err = p.breaker.Execute(func() (interface{}, error) {
			return nil, p.publisher.Publish(subject, msg)
		})
	} else {
		err = p.publisher.Publish(subject, msg)
	}

	if err == nil {
		metrics.BusMessagesPublished.Inc()
	}

	return err
}

// PublishAlert envelopes the alert and publishes it on its severity and
// rule subject. The message UUID is the alert's public id.
func (p *Publisher) PublishAlert(ctx context.Context, alert *models.Alert) error {
	data, err := EncodeAlert(alert)
	if err != nil {
		return err
	}

	msg := message.NewMessage(alert.AlertID, data)
	msg.Metadata.Set("rule_name", string(alert.RuleName))
	msg.Metadata.Set("severity", string(alert.Severity))

	return p.Publish(ctx, SubjectFor(p.subjectPrefix, alert), msg)
}

// Close shuts the publisher down. Further publishes return
// ErrPublisherClosed. Close is idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	return p.publisher.Close()
}
