// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

// Package websocket pushes newly created alerts to connected dashboard
// clients over gorilla/websocket connections.
//
// A single Hub owns the client set and fans each alert out to every
// registered client; each client runs a read pump (keepalive handling)
// and a write pump (delivery and pings). The hub implements the
// detection package's broadcaster contract, so the alert manager can
// announce alerts without knowing about connections. Clients that fall
// behind are disconnected rather than allowed to stall the feed.
//
// The HTTP upgrade itself is handled by the api package; this package
// only deals in upgraded connections.
package websocket
