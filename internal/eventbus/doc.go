// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

// Package eventbus publishes detection alerts to NATS for external
// consumers such as SOAR pipelines, chat bridges, and downstream SIEM
// aggregators.
//
// The package is gated behind the "nats" build tag. Default builds get
// stub implementations whose constructors return ErrBusNotEnabled, so
// the rest of the application links without any NATS runtime. Build
// with -tags=nats to enable publishing.
//
// # Subject layout
//
// Every alert is published on a subject of the form
//
//	<prefix>.<severity>.<rule>
//
// for example auspex.alerts.high.brute_force_login. Consumers subscribe
// with NATS wildcards: "auspex.alerts.critical.>" for critical alerts
// only, "auspex.alerts.*.impossible_travel" for one rule across all
// severities.
//
// # Delivery semantics
//
// Publishing uses core NATS, not JetStream: alerts are fan-out
// notifications and the database remains the system of record, so a
// dropped message costs a notification, never data. The embedded server
// still enables JetStream so consumers that want durability can bind
// their own streams over the alert subjects.
//
// # Wiring
//
// The publisher plugs into alert creation as a notifier alongside the
// webhook sender:
//
//	pub, err := eventbus.NewPublisher(eventbus.DefaultPublisherConfig(url), nil)
//	notifier, err := eventbus.NewAlertNotifier(pub)
//	manager.RegisterNotifier(notifier)
//
// Deployments without an external broker can run the embedded server
// (NewEmbeddedServer) and point the publisher at its ClientURL.
package eventbus
