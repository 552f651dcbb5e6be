// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package eventbus

import "errors"

// ErrBusNotEnabled is returned when NATS publishing is used without the
// nats build tag.
var ErrBusNotEnabled = errors.New("NATS alert publishing not enabled (build with -tags nats)")

// ErrPublisherClosed is returned when publishing after Close.
var ErrPublisherClosed = errors.New("alert publisher is closed")

// ErrNilPublisher is returned when wiring a notifier without a publisher.
var ErrNilPublisher = errors.New("publisher cannot be nil")

// ErrNilAlert is returned when encoding or publishing a nil alert.
var ErrNilAlert = errors.New("alert cannot be nil")
