// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

//go:build nats

package main

import (
	"github.com/samvasq/auspex/internal/logging"
	"github.com/samvasq/auspex/internal/supervisor"
	"github.com/samvasq/auspex/internal/supervisor/services"
)

// AddNATSToSupervisor adds the alert bus to the supervisor tree's
// messaging layer so shutdown ordering follows the tree: the bus drains
// before the data layer goes away.
//
// No-op if natsComponents is nil (NATS disabled via config), so main
// can call this unconditionally.
func AddNATSToSupervisor(tree *supervisor.SupervisorTree, natsComponents *NATSComponents) {
	if natsComponents == nil {
		return
	}
	tree.AddMessagingService(services.NewEventBusService(natsComponents))
	logging.Info().Msg("NATS alert bus added to supervisor tree (messaging layer)")
}
