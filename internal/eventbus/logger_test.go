// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package eventbus

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/samvasq/auspex/internal/logging"
)

// captureLogs swaps the global logger for one writing to a buffer and
// restores it when the test finishes.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := logging.Logger()
	logging.SetLogger(logging.NewTestLogger(&buf))
	t.Cleanup(func() { logging.SetLogger(prev) })

	return &buf
}

func TestLoggerAdapter_Info(t *testing.T) {
	buf := captureLogs(t)

	adapter := NewLoggerAdapter()
	adapter.Info("bus ready", watermill.LogFields{"subject": "auspex.alerts"})

	out := buf.String()
	if !strings.Contains(out, "bus ready") {
		t.Errorf("output missing message: %s", out)
	}
	if !strings.Contains(out, "auspex.alerts") {
		t.Errorf("output missing field value: %s", out)
	}
	if !strings.Contains(out, `"level":"info"`) {
		t.Errorf("output missing info level: %s", out)
	}
}

func TestLoggerAdapter_Error(t *testing.T) {
	buf := captureLogs(t)

	adapter := NewLoggerAdapter()
	adapter.Error("publish failed", errors.New("broker gone"), nil)

	out := buf.String()
	if !strings.Contains(out, "publish failed") {
		t.Errorf("output missing message: %s", out)
	}
	if !strings.Contains(out, "broker gone") {
		t.Errorf("output missing error: %s", out)
	}
	if !strings.Contains(out, `"level":"error"`) {
		t.Errorf("output missing error level: %s", out)
	}
}

func TestLoggerAdapter_With(t *testing.T) {
	buf := captureLogs(t)

	adapter := NewLoggerAdapter().With(watermill.LogFields{"component": "eventbus"})
	adapter.Info("child logger", nil)

	out := buf.String()
	if !strings.Contains(out, `"component":"eventbus"`) {
		t.Errorf("output missing inherited field: %s", out)
	}

	// The parent stays untouched.
	buf.Reset()
	NewLoggerAdapter().Info("parent logger", nil)
	if strings.Contains(buf.String(), "component") {
		t.Errorf("parent output has child field: %s", buf.String())
	}
}
