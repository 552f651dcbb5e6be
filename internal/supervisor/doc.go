// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

/*
Package supervisor provides suture-based process supervision for Auspex.

Long-running services are organized into a three-layer tree so a crash
in one layer restarts only its siblings, not the whole process:

	root ("auspex")
	├── data-layer
	│   ├── retention janitor
	│   └── intel feed updater
	├── messaging-layer
	│   └── websocket hub
	└── api-layer
	    └── http server

A restart of the intel updater never drops live dashboard connections,
and a websocket hub crash never takes the HTTP API down. Crashed
services restart with exponential backoff; suture events are logged
through the zerolog-backed slog adapter in internal/logging.

Wrappers adapting each service to the suture.Service contract live in
the services subpackage.
*/
package supervisor
