// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

// Package metrics defines the Prometheus instrumentation for the service:
// catalog store query performance, external enrichment lookup outcomes, and
// HTTP endpoint latency. All collectors are registered on the default
// registry via promauto and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog store metrics.

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_store_query_duration_seconds",
			Help:    "Duration of catalog store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_store_query_errors_total",
			Help: "Total number of catalog store query errors",
		},
		[]string{"operation"},
	)

	// Slice pipeline metrics.

	SliceFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_slice_fetch_total",
			Help: "Total slice fetches by slice name and result",
		},
		[]string{"slice", "result"}, // result: "ok", "backfilled", "error"
	)

	// Enrichment metrics.

	EnrichmentLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_lookups_total",
			Help: "Total external status lookups by outcome",
		},
		[]string{"outcome"}, // "hit", "absent", "error", "timeout", "breaker_open", "cached"
	)

	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_lookup_duration_seconds",
			Help:    "Duration of external status lookups in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 10},
		},
	)

	BreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "enrichment_breaker_state",
			Help: "Circuit breaker state for the metadata source (0=closed, 1=half-open, 2=open)",
		},
	)

	// HTTP metrics.

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)
