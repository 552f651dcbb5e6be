// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

// Package detection evaluates persisted log events against an ordered set
// of correlation rules and manages the alerts those rules produce.
//
// Rules implement a uniform contract: each receives the freshly inserted
// event together with a query handle and returns a Finding when it fires.
// During batch ingestion the handle is the batch transaction, so rules see
// rows inserted earlier in the same batch before it commits. Deduplication
// is enforced at evaluation time by checking for an unresolved alert with
// the same correlation key inside the rule's dedup window; resolving an
// alert re-arms the rule immediately.
//
// The alert lifecycle (acknowledge, resolve, annotate) and delivery to
// notifiers and live listeners are handled by Manager, backed by Store for
// persistence.
package detection
