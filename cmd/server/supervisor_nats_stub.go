// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

//go:build !nats

package main

import (
	"github.com/samvasq/auspex/internal/supervisor"
)

// AddNATSToSupervisor is a no-op stub for non-NATS builds. The
// NATSComponents parameter will be nil from the stub InitNATS, so
// main's unconditional call does nothing here.
func AddNATSToSupervisor(_ *supervisor.SupervisorTree, _ *NATSComponents) {
}
