// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

// Package api provides the HTTP surface of the catalog service using the
// chi router with production middleware from the chi ecosystem.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pavelgr/cinematek/internal/middleware"
)

// RouterConfig holds the surface-level HTTP settings.
type RouterConfig struct {
	CORSAllowedOrigins []string

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// Router wires handlers and middleware into the served http.Handler.
type Router struct {
	handler *Handler
	config  RouterConfig
}

// NewRouter creates a router around the given handler set.
func NewRouter(h *Handler, cfg RouterConfig) *Router {
	if cfg.RateLimitRequests <= 0 {
		cfg.RateLimitRequests = 300
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}
	return &Router{handler: h, config: cfg}
}

// Setup builds the route tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.config.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	}))

	r.Route("/catalog", func(r chi.Router) {
		r.Use(rt.rateLimit())
		r.Use(middleware.Prometheus)

		r.Get("/home-feed", rt.handler.HomeFeed)
		r.Get("/filter", rt.handler.Filter)
		r.Get("/search", rt.handler.Search)
		r.Get("/facets", rt.handler.Facets)
		r.Get("/item/{slug}", rt.handler.Item)
	})

	r.Get("/healthz", rt.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (rt *Router) rateLimit() func(http.Handler) http.Handler {
	if rt.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		rt.config.RateLimitRequests,
		rt.config.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)
}
