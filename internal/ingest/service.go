// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samvasq/auspex/internal/database"
	"github.com/samvasq/auspex/internal/detection"
	"github.com/samvasq/auspex/internal/logging"
	"github.com/samvasq/auspex/internal/metrics"
	"github.com/samvasq/auspex/internal/models"
	"github.com/samvasq/auspex/internal/parser"
)

// Source labels recorded on ingestion metrics.
const (
	sourceAPI    = "api"
	sourceBulk   = "bulk"
	sourceText   = "text"
	sourceUpload = "upload"
)

// lineSnippetLimit bounds how much of a dropped line makes it into the
// debug log.
const lineSnippetLimit = 200

// Service runs the ingestion pipeline. Each public method owns exactly one
// database transaction: entries are inserted and analyzed in input order,
// alert rows are created on the same transaction, and everything commits
// together. Alerts reach notifiers only after that commit.
type Service struct {
	db      *database.DB
	parser  *parser.Parser
	engine  *detection.Engine
	manager *detection.Manager
}

// New creates an ingestion service wired to the given pipeline stages.
func New(db *database.DB, p *parser.Parser, engine *detection.Engine, manager *detection.Manager) *Service {
	return &Service{db: db, parser: p, engine: engine, manager: manager}
}

// IngestText ingests raw log lines from a text blob. Blank lines are
// skipped; unparseable lines are dropped with a debug log and counted,
// never aborting the batch. sourceFile tags the stored entries and may be
// empty.
func (s *Service) IngestText(ctx context.Context, text, sourceFile string) (*models.IngestResult, error) {
	return s.ingestLines(ctx, strings.Split(text, "\n"), sourceFile, sourceText)
}

// IngestFile reads a log file from disk and ingests its lines, tagging
// each stored entry with the file's basename.
func (s *Service) IngestFile(ctx context.Context, path string) (*models.IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}
	base := filepath.Base(path)
	result, err := s.ingestLines(ctx, strings.Split(string(data), "\n"), base, sourceUpload)
	if err != nil {
		return nil, err
	}
	result.SourceFile = base
	return result, nil
}

// IngestSingle ingests one structured submission and reports the stored
// entry's id alongside the usual counts.
func (s *Service) IngestSingle(ctx context.Context, sub models.LogSubmission) (*models.IngestResult, error) {
	entry := s.entryFromSubmission(ctx, sub)
	result, err := s.ingestEntries(ctx, []*models.LogEntry{entry}, sourceAPI)
	if err != nil {
		return nil, err
	}
	result.LogEntryID = &entry.ID
	return result, nil
}

// IngestBulk ingests a batch of structured submissions in one transaction.
// Entries are handled like single submissions rather than being rendered
// back into text lines, so usernames and raw logs arrive in the store
// exactly as submitted.
func (s *Service) IngestBulk(ctx context.Context, subs []models.LogSubmission) (*models.IngestResult, error) {
	entries := make([]*models.LogEntry, 0, len(subs))
	for i := range subs {
		entries = append(entries, s.entryFromSubmission(ctx, subs[i]))
	}
	return s.ingestEntries(ctx, entries, sourceBulk)
}

// ingestLines parses and processes raw lines inside one transaction.
func (s *Service) ingestLines(ctx context.Context, lines []string, sourceFile, source string) (*models.IngestResult, error) {
	start := time.Now()
	var (
		result models.IngestResult
		alerts []*models.Alert
	)
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			entry := s.parser.ParseLine(ctx, line, sourceFile)
			if entry == nil {
				metrics.ParseFailures.Inc()
				logging.Debug().Str("line", lineSnippet(line)).Msg("Dropped unparseable log line")
				continue
			}
			created, err := s.processEntry(ctx, tx, entry)
			if err != nil {
				return err
			}
			result.Ingested++
			alerts = append(alerts, created...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.AlertsGenerated = len(alerts)
	s.finish(ctx, &result, alerts, source, sourceFile, start)
	return &result, nil
}

// ingestEntries processes already-normalized entries inside one
// transaction.
func (s *Service) ingestEntries(ctx context.Context, entries []*models.LogEntry, source string) (*models.IngestResult, error) {
	start := time.Now()
	var (
		result models.IngestResult
		alerts []*models.Alert
	)
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, entry := range entries {
			created, err := s.processEntry(ctx, tx, entry)
			if err != nil {
				return err
			}
			result.Ingested++
			alerts = append(alerts, created...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.AlertsGenerated = len(alerts)
	s.finish(ctx, &result, alerts, source, "", start)
	return &result, nil
}

// processEntry inserts one entry and runs detection on the same
// transaction, so correlation queries count earlier rows of the current
// batch. An alert row is created per finding; a storage error aborts the
// batch.
func (s *Service) processEntry(ctx context.Context, tx *sql.Tx, entry *models.LogEntry) ([]*models.Alert, error) {
	if err := database.InsertLogEntry(ctx, tx, entry); err != nil {
		return nil, err
	}
	specs := s.engine.Analyze(ctx, tx, entry)
	if len(specs) == 0 {
		return nil, nil
	}
	alerts := make([]*models.Alert, 0, len(specs))
	for _, spec := range specs {
		alert, err := s.manager.Create(ctx, tx, spec, entry)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// entryFromSubmission converts a structured submission into a log entry.
// A missing or unparseable timestamp falls back to the receive time, the
// classification fields get their parser defaults, and the source IP is
// enriched with location data when it resolves.
func (s *Service) entryFromSubmission(ctx context.Context, sub models.LogSubmission) *models.LogEntry {
	ts, ok := parser.ParseTimestamp(sub.Timestamp)
	if !ok {
		ts = time.Now().UTC()
	}
	entry := &models.LogEntry{
		Timestamp:  ts,
		SourceIP:   sub.SourceIP,
		Username:   sub.Username,
		EventType:  models.NormalizeEventType(sub.EventType),
		Status:     models.NormalizeStatus(sub.Status),
		RawLog:     sub.RawLog,
		SourceFile: sub.SourceFile,
	}
	s.parser.Enrich(ctx, entry)
	return entry
}

// finish announces committed alerts and records batch telemetry.
func (s *Service) finish(ctx context.Context, result *models.IngestResult, alerts []*models.Alert, source, sourceFile string, start time.Time) {
	s.manager.Announce(ctx, alerts)
	metrics.RecordIngest(source, result.Ingested, time.Since(start))

	evt := logging.Info().
		Str("source", source).
		Int("ingested", result.Ingested).
		Int("alerts_generated", result.AlertsGenerated)
	if sourceFile != "" {
		evt = evt.Str("source_file", sourceFile)
	}
	evt.Dur("duration", time.Since(start)).Msg("Ingestion completed")
}

func lineSnippet(line string) string {
	if len(line) <= lineSnippetLimit {
		return line
	}
	return line[:lineSnippetLimit]
}
