// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package detection

import (
	"context"
	"time"

	"github.com/samvasq/auspex/internal/config"
	"github.com/samvasq/auspex/internal/database"
	"github.com/samvasq/auspex/internal/intel"
	"github.com/samvasq/auspex/internal/logging"
	"github.com/samvasq/auspex/internal/metrics"
	"github.com/samvasq/auspex/internal/models"
)

// Engine runs every detection rule against each event in a fixed order.
type Engine struct {
	enabled bool
	rules   []Rule
}

// NewEngine builds the engine with the standard rule set. Evaluation
// order is fixed: brute force, impossible travel, business hours,
// privilege escalation, blacklist.
func NewEngine(cfg config.DetectionConfig, blacklist *intel.Blacklist) *Engine {
	return &Engine{
		enabled: cfg.Enabled,
		rules: []Rule{
			NewBruteForceRule(cfg),
			NewImpossibleTravelRule(),
			NewBusinessHoursRule(cfg),
			NewPrivilegeEscalationRule(),
			NewBlacklistRule(blacklist),
		},
	}
}

// Rules returns the rules in evaluation order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Analyze evaluates all rules against the event and returns the firings
// in rule order. A failing rule is logged and skipped so one broken rule
// never blocks the others, and never aborts ingestion.
func (e *Engine) Analyze(ctx context.Context, q database.Querier, event *models.LogEntry) []AlertSpec {
	if !e.enabled || event == nil {
		return nil
	}

	metrics.DetectionEventsAnalyzed.Inc()

	var specs []AlertSpec
	for _, rule := range e.rules {
		start := time.Now()
		finding, err := rule.Check(ctx, q, event)
		metrics.RecordRule(string(rule.Name()), time.Since(start), err)
		if err != nil {
			logging.Error().
				Err(err).
				Str("rule", string(rule.Name())).
				Int64("log_entry_id", event.ID).
				Msg("rule evaluation failed")
			continue
		}
		if finding == nil {
			continue
		}

		specs = append(specs, AlertSpec{
			RuleName:    rule.Name(),
			Severity:    rule.Severity(),
			Description: finding.Description,
			Context:     finding.Context,
		})
	}

	return specs
}
