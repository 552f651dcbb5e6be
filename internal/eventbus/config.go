// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package eventbus

import "time"

// PublisherConfig holds alert publisher connection settings.
type PublisherConfig struct {
	// URL is the NATS server connection URL.
	URL string

	// SubjectPrefix is the leading subject tokens for alert publishes.
	// Empty selects DefaultSubjectPrefix.
	SubjectPrefix string

	// MaxReconnects bounds reconnection attempts. Negative means
	// unlimited.
	MaxReconnects int

	// ReconnectWait is the delay between reconnection attempts.
	ReconnectWait time.Duration

	// ReconnectBuffer is the bytes of outgoing messages buffered while
	// disconnected.
	ReconnectBuffer int
}

// DefaultPublisherConfig returns production defaults for the publisher.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:             url,
		SubjectPrefix:   DefaultSubjectPrefix,
		MaxReconnects:   -1,
		ReconnectWait:   2 * time.Second,
		ReconnectBuffer: 8 << 20,
	}
}

// ServerConfig holds embedded NATS server settings.
type ServerConfig struct {
	Host string

	// Port is the listen port. -1 selects a random free port, which
	// tests rely on.
	Port int

	// StoreDir is the JetStream storage directory.
	StoreDir string

	// MaxMemory and MaxStore bound JetStream memory and disk usage in
	// bytes.
	MaxMemory int64
	MaxStore  int64
}

// DefaultServerConfig returns production defaults for the embedded
// server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:      "127.0.0.1",
		Port:      4222,
		StoreDir:  "./data/nats/jetstream",
		MaxMemory: 1 << 30,
		MaxStore:  10 << 30,
	}
}
