// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

// Command server runs the Cinematek catalog HTTP service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pavelgr/cinematek/internal/api"
	"github.com/pavelgr/cinematek/internal/catalog"
	"github.com/pavelgr/cinematek/internal/config"
	"github.com/pavelgr/cinematek/internal/database"
	"github.com/pavelgr/cinematek/internal/enrichment"
	"github.com/pavelgr/cinematek/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Configuration error")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	db, err := database.Connect(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
	if err != nil {
		logging.Fatal().Err(err).Msg("Catalog store connection failed")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			logging.Error().Err(err).Msg("Catalog store close failed")
		}
	}()

	var statusCache *enrichment.StatusCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(connectCtx).Err(); err != nil {
			// The cache is an optimization; run without it rather than refuse to start.
			logging.Warn().Err(err).Msg("Redis unreachable, status caching disabled")
		} else {
			statusCache = enrichment.NewStatusCache(rdb, cfg.Redis.CacheTTL)
			defer rdb.Close()
		}
	}

	enricher, err := enrichment.New(enrichment.Config{
		BaseURL:         cfg.Enrichment.BaseURL,
		ListTimeout:     cfg.Enrichment.ListTimeout,
		DetailTimeout:   cfg.Enrichment.DetailTimeout,
		RatePerSecond:   cfg.Enrichment.RatePerSecond,
		RateBurst:       cfg.Enrichment.RateBurst,
		MaxConnsPerHost: cfg.Enrichment.MaxConnsPerHost,
		Cache:           statusCache,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Enrichment client setup failed")
	}

	service := catalog.NewService(db, enricher, catalog.DefaultSlices(time.Now()))

	router := api.NewRouter(api.NewHandler(service), api.RouterConfig{
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimitRequests:  cfg.RateLimit.Requests,
		RateLimitWindow:    cfg.RateLimit.Window,
		RateLimitDisabled:  cfg.RateLimit.Disabled,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Server.Addr).Msg("Server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("Server failed")
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}

	logging.Info().Msg("Server stopped")
}
