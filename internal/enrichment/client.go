// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

// Package enrichment provides the client for the external metadata source:
// a per-slug lookup of the current availability status ("episode 12/24",
// "complete", ...). The source is unreliable and rate-limited, and it is
// never authoritative, so every failure mode — timeout, transport error,
// non-2xx, malformed body, open circuit — degrades to an absent status
// instead of an error. Lookup never fails the surrounding page.
package enrichment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/pavelgr/cinematek/internal/logging"
	"github.com/pavelgr/cinematek/internal/metrics"
)

// Status is the two-state result of a lookup. OK distinguishes "the source
// answered with a status" from every other outcome; callers treat !OK as a
// plain absence, never as an error.
type Status struct {
	Value string
	OK    bool
}

// Absent is the degraded lookup result.
var Absent = Status{}

// maxStatusBody bounds how much of an upstream response is read. Status
// payloads are tiny; anything larger is treated as malformed.
const maxStatusBody = 64 << 10

// Config holds the enrichment client configuration.
type Config struct {
	// BaseURL of the metadata source. Lookups GET <BaseURL>/titles/{slug}.
	BaseURL string

	// ListTimeout bounds lookups issued on behalf of list endpoints.
	// Default: 3s.
	ListTimeout time.Duration

	// DetailTimeout bounds lookups issued on behalf of the detail endpoint,
	// which can afford a longer budget. Default: 8s.
	DetailTimeout time.Duration

	// RatePerSecond and RateBurst throttle outbound calls; the source is
	// rate-limited and bans aggressive clients. Defaults: 25/s, burst 50.
	RatePerSecond float64
	RateBurst     int

	// MaxConnsPerHost sizes the shared transport pool for wide fan-out.
	// Default: 64.
	MaxConnsPerHost int

	// Cache is the optional status cache. Nil disables caching.
	Cache *StatusCache

	// Transport overrides the HTTP transport. Used by tests.
	Transport http.RoundTripper
}

// Client performs fail-open status lookups against the metadata source.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[string]
	cache      *StatusCache

	listTimeout   time.Duration
	detailTimeout time.Duration

	logger zerolog.Logger
}

// New creates an enrichment client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("enrichment: base URL is required")
	}
	if cfg.ListTimeout <= 0 {
		cfg.ListTimeout = 3 * time.Second
	}
	if cfg.DetailTimeout <= 0 {
		cfg.DetailTimeout = 8 * time.Second
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 25
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 50
	}
	if cfg.MaxConnsPerHost <= 0 {
		cfg.MaxConnsPerHost = 64
	}

	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			MaxIdleConns:        cfg.MaxConnsPerHost,
			MaxIdleConnsPerHost: cfg.MaxConnsPerHost,
			MaxConnsPerHost:     cfg.MaxConnsPerHost,
			IdleConnTimeout:     90 * time.Second,
		}
	}

	logger := logging.With().Str("component", "enrichment").Logger()

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "metadata-source",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		// Open after a 60% failure rate with at least 10 samples. A dead
		// upstream then stops burning per-call timeout budgets; the open
		// circuit still resolves to Absent, keeping the fail-open contract.
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("Metadata source circuit state change")
			metrics.BreakerState.Set(breakerStateValue(to))
		},
	})

	return &Client{
		httpClient:    &http.Client{Transport: transport},
		baseURL:       cfg.BaseURL,
		limiter:       rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		cb:            cb,
		cache:         cfg.Cache,
		listTimeout:   cfg.ListTimeout,
		detailTimeout: cfg.DetailTimeout,
		logger:        logger,
	}, nil
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Lookup fetches the live status for slug under the list timeout budget.
func (c *Client) Lookup(ctx context.Context, slug string) Status {
	return c.lookup(ctx, slug, c.listTimeout)
}

// LookupDetail fetches the live status for slug under the detail timeout budget.
func (c *Client) LookupDetail(ctx context.Context, slug string) Status {
	return c.lookup(ctx, slug, c.detailTimeout)
}

// statusPayload matches the metadata source's response document. Only the
// nested current-status string is consumed.
type statusPayload struct {
	Data struct {
		Status struct {
			Current string `json:"current"`
		} `json:"status"`
	} `json:"data"`
}

func (c *Client) lookup(ctx context.Context, slug string, timeout time.Duration) Status {
	if c.cache != nil {
		if st, ok := c.cache.Get(ctx, slug); ok {
			metrics.EnrichmentLookups.WithLabelValues("cached").Inc()
			return st
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	value, err := c.cb.Execute(func() (string, error) {
		return c.fetch(ctx, slug)
	})
	metrics.EnrichmentDuration.Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.EnrichmentLookups.WithLabelValues("breaker_open").Inc()
		return Absent
	case err != nil && ctx.Err() != nil:
		metrics.EnrichmentLookups.WithLabelValues("timeout").Inc()
		c.logger.Debug().Str("slug", slug).Msg("Status lookup timed out")
		return Absent
	case err != nil:
		metrics.EnrichmentLookups.WithLabelValues("error").Inc()
		c.logger.Debug().Str("slug", slug).Err(err).Msg("Status lookup failed")
		return Absent
	case value == "":
		metrics.EnrichmentLookups.WithLabelValues("absent").Inc()
		return Absent
	}

	metrics.EnrichmentLookups.WithLabelValues("hit").Inc()
	st := Status{Value: value, OK: true}
	if c.cache != nil {
		c.cache.Set(ctx, slug, st)
	}
	return st
}

// fetch performs one HTTP round trip. It returns an empty value with a nil
// error when the source has no data for the slug; that is a valid terminal
// state and must not count against the circuit breaker.
func (c *Client) fetch(ctx context.Context, slug string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/titles/"+slug, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("metadata source returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStatusBody))
	if err != nil {
		return "", err
	}

	var payload statusPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("malformed status payload: %w", err)
	}

	return payload.Data.Status.Current, nil
}
