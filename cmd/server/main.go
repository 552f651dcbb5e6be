// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

// Package main is the entry point for the Auspex server.
//
// Auspex is a self-hosted security log analytics platform. It ingests
// authentication and system logs, normalizes them into structured events,
// enriches them with geolocation, runs a rule-based detection engine over
// every event, and serves alerts and search over a REST API with a live
// WebSocket feed for dashboards.
//
// # Application Architecture
//
// The server runs under a Suture v4 supervision tree:
//
//	RootSupervisor ("auspex")
//	├── DataSupervisor ("data-layer")
//	│   ├── Retention janitor (log and alert expiry)
//	│   └── Intel feed updater (blacklist refresh)
//	├── MessagingSupervisor ("messaging-layer")
//	│   ├── WebSocket hub (live alert feed)
//	│   └── NATS alert bus (optional, -tags nats)
//	└── APISupervisor ("api-layer")
//	    └── HTTP server (REST API + /ws + /metrics)
//
// Component initialization order:
//
//	1. Configuration: Koanf v2 with defaults, config.yaml, and environment
//	2. Database: DuckDB with the log entry and alert schemas
//	3. Geolocation: MaxMind GeoLite2 with HTTP fallback behind a circuit breaker
//	4. Threat intel: static IP blacklist plus optional feed updater
//	5. Detection: rule engine and alert manager with configured notifiers
//	6. NATS (optional): alert publishing to an external or embedded broker
//	7. HTTP server: REST API, WebSocket upgrades, and Prometheus metrics
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//
//   - Environment variables (AUSPEX_ prefixed, plus legacy aliases)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// # Build Tags
//
// Optional build tags enable additional functionality:
//
//	go build ./cmd/server              # Default build
//	go build -tags nats ./cmd/server   # Enable NATS alert publishing
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (SHUTDOWN_TIMEOUT, 10s default)
//   - Drains the WebSocket hub and alert bus
//   - Closes the database last so late writes still land
//
// # Example Usage
//
// Development with defaults (DuckDB at ./data/auspex.duckdb, port 8080):
//
//	./auspex
//
// Production with a MaxMind database and webhook alerting:
//
//	export GEOIP_DB_PATH=/data/GeoLite2-City.mmdb
//	export WEBHOOK_ENABLED=true
//	export WEBHOOK_URL=https://hooks.example.com/security
//	export LOG_FORMAT=json
//	./auspex
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/samvasq/auspex/internal/api"
	"github.com/samvasq/auspex/internal/config"
	"github.com/samvasq/auspex/internal/database"
	"github.com/samvasq/auspex/internal/detection"
	"github.com/samvasq/auspex/internal/geo"
	"github.com/samvasq/auspex/internal/ingest"
	"github.com/samvasq/auspex/internal/intel"
	"github.com/samvasq/auspex/internal/logging"
	"github.com/samvasq/auspex/internal/metrics"
	"github.com/samvasq/auspex/internal/parser"
	"github.com/samvasq/auspex/internal/supervisor"
	"github.com/samvasq/auspex/internal/supervisor/services"
	ws "github.com/samvasq/auspex/internal/websocket"
)

// version is stamped at build time via -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("version", version).Msg("Starting Auspex with supervisor tree")

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Bool("detection_enabled", cfg.Detection.Enabled).
		Bool("intel_feed_enabled", cfg.Intel.Enabled).
		Bool("retention_enabled", cfg.Retention.Enabled).
		Msg("Configuration loaded")

	db, err := database.New(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Create the WebSocket hub early so the alert manager can broadcast
	// from the first ingested batch.
	wsHub := ws.NewHub()

	geoService := geo.New(cfg.Geo)
	defer func() {
		if err := geoService.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing geolocation service")
		}
	}()

	blacklist := intel.NewBlacklist(cfg.Detection.IPBlacklist)
	logging.Info().Int("entries", blacklist.Len()).Msg("IP blacklist loaded")
	feedUpdater := intel.NewUpdater(blacklist, cfg.Intel)

	logParser := parser.New(geoService)

	engine, alertManager, alertStore, err := initDetection(ctx, cfg, db, blacklist, wsHub)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize detection")
	}

	ingester := ingest.New(db, logParser, engine, alertManager)

	handler := api.NewHandler(cfg, db, alertManager, ingester, wsHub)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg))

	// Initialize NATS alert publishing (optional - requires build with
	// -tags nats). The notifier registers with the alert manager so every
	// announced alert is also published to the bus.
	natsComponents, err := InitNATS(cfg, alertManager)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize NATS")
	}
	AddNATSToSupervisor(tree, natsComponents)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer services. Both idle when disabled so the tree shape is
	// the same in every configuration.
	tree.AddDataService(services.NewRetentionService(detection.NewJanitor(cfg.Retention, db, alertStore)))
	tree.AddDataService(services.NewIntelFeedService(feedUpdater))

	// Messaging layer services
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logStartupCounts(ctx, db, alertStore)

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
	go trackUptime(ctx)

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// initDetection builds the alert store, detection engine, and alert
// manager, and registers the configured notifiers.
//
// The alert schema backs the alert API even when detection is disabled,
// so a schema failure is fatal to the caller. The engine itself honors
// DETECTION_ENABLED internally and analyzes nothing when off.
func initDetection(ctx context.Context, cfg *config.Config, db *database.DB, blacklist *intel.Blacklist, hub *ws.Hub) (*detection.Engine, *detection.Manager, *detection.Store, error) {
	store := detection.NewStore(db)
	if err := store.InitSchema(ctx); err != nil {
		return nil, nil, nil, fmt.Errorf("initialize alert schema: %w", err)
	}

	engine := detection.NewEngine(cfg.Detection, blacklist)
	if cfg.Detection.Enabled {
		logging.Info().Int("rules", len(engine.Rules())).Msg("Detection engine initialized")
	} else {
		logging.Info().Msg("Detection engine disabled (DETECTION_ENABLED=false)")
	}

	manager := detection.NewManager(store)
	manager.SetBroadcaster(hub)

	if cfg.Detection.Webhook.Enabled && cfg.Detection.Webhook.WebhookURL != "" {
		manager.RegisterNotifier(detection.NewWebhookNotifier(cfg.Detection.Webhook))
		logging.Info().
			Str("url", cfg.Detection.Webhook.WebhookURL).
			Int("rate_limit_ms", cfg.Detection.Webhook.RateLimitMs).
			Msg("Webhook notifier registered")
	}

	return engine, manager, store, nil
}

// logStartupCounts reports persisted volumes so operators can confirm
// the server reopened the expected database.
func logStartupCounts(ctx context.Context, db *database.DB, store *detection.Store) {
	countCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	entries, err := db.CountLogEntries(countCtx)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to count log entries")
		return
	}
	alerts, err := store.CountAlerts(countCtx)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to count alerts")
		return
	}
	logging.Info().
		Int64("log_entries", entries).
		Int64("alerts", alerts).
		Msg("Database volumes at startup")
}

// trackUptime refreshes the uptime gauge until shutdown.
func trackUptime(ctx context.Context) {
	start := time.Now()
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.AppUptime.Set(time.Since(start).Seconds())
		}
	}
}
