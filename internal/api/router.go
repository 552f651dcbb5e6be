// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samvasq/auspex/internal/middleware"
)

// Router wires handlers and middleware into the HTTP routing tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router from an already-constructed handler set and
// middleware factory.
func NewRouter(handler *Handler, chiMw *ChiMiddleware) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: chiMw,
	}
}

// Setup configures all HTTP routes and returns the root handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order. Recovery sits inside AccessLog so
	// panics are logged with their status; CORS must be global to handle
	// OPTIONS preflight; Compression comes last so preflight responses
	// are never gzipped.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP) // Extract real IP from X-Forwarded-For for rate limiting
	r.Use(middleware.AccessLog)
	r.Use(middleware.Recovery)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.Compression)

	// ========================
	// Log Ingestion
	// ========================
	// Collectors post continuously, so ingestion gets the most permissive
	// API rate limit (600/min).
	r.Route("/api/v1/logs", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitIngest())
		r.Use(APISecurityHeaders())
		r.Use(middleware.Prometheus)

		r.Post("/", router.handler.SubmitLog)
		r.Post("/bulk", router.handler.SubmitLogsBulk)
		r.Post("/upload", router.handler.UploadLogFile)
	})

	// ========================
	// Event Search
	// ========================
	r.Route("/api/v1/events", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.Prometheus)

		r.Get("/", router.handler.SearchEvents)
		r.Get("/{id}", router.handler.EventDetail)
	})

	// ========================
	// Alert Management
	// ========================
	// Reads use the default limit. Exports are resource intensive (10/min)
	// and analyst write actions are deliberate, low-volume operations
	// (30/min).
	r.Route("/api/v1/alerts", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.Prometheus)

		r.Get("/", router.handler.ListAlerts)
		r.With(router.chiMiddleware.RateLimitExport()).Get("/export", router.handler.ExportAlerts)
		r.Get("/{alertID}", router.handler.AlertDetail)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWrite())

			r.Post("/{alertID}/acknowledge", router.handler.AcknowledgeAlert)
			r.Post("/{alertID}/resolve", router.handler.ResolveAlert)
			r.Put("/{alertID}/notes", router.handler.UpdateAlertNotes)
		})
	})

	// ========================
	// Dashboard
	// ========================
	r.Route("/api/v1/dashboard", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.Prometheus)

		r.Get("/stats", router.handler.DashboardStats)
	})

	// ========================
	// Live Alert Feed
	// ========================
	// No Prometheus middleware here: WebSocket connections live for hours
	// and would skew the request duration histogram. The hub exports its
	// own connection gauges.
	r.Route("/api/v1/ws", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitWebSocket())

		r.Get("/", router.handler.WebSocket)
	})

	// ========================
	// Health
	// ========================
	// Permissive rate limiting (1000/min) so load balancers and uptime
	// monitors can probe frequently.
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())

		r.Get("/", router.handler.Health)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	return r
}
