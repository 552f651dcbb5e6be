// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

// Package services adapts Auspex's long-running components to the
// suture.Service contract so the supervisor tree can run them.
//
// Each wrapper declares a one-method interface for the component it
// supervises instead of importing the component's package, keeping this
// package free of dependency cycles. The websocket hub, retention
// janitor, and intel updater already block in RunWithContext, so their
// wrappers only delegate and supply a name; the HTTP server wrapper
// additionally translates ListenAndServe/Shutdown into the
// context-driven lifecycle suture expects.
package services
