// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

package enrichment

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pavelgr/cinematek/internal/logging"
)

// keyPrefix namespaces status entries in the shared Redis deployment.
const keyPrefix = "cinematek:livestatus:"

// StatusCache is a Redis read-through cache of present statuses. Only
// successful lookups are cached: an absent status may be a transient
// upstream failure, and caching it would pin the degraded value past the
// outage. Redis faults degrade silently to a direct lookup.
type StatusCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStatusCache creates a status cache with the given TTL. A TTL of zero
// defaults to one minute; the status is freshness display only, so short
// TTLs are fine.
func NewStatusCache(rdb *redis.Client, ttl time.Duration) *StatusCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatusCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached status for slug, if any.
func (c *StatusCache) Get(ctx context.Context, slug string) (Status, bool) {
	val, err := c.rdb.Get(ctx, keyPrefix+slug).Result()
	if err == redis.Nil {
		return Absent, false
	}
	if err != nil {
		logging.Debug().Err(err).Msg("Status cache read failed")
		return Absent, false
	}
	return Status{Value: val, OK: true}, true
}

// Set stores a present status for slug.
func (c *StatusCache) Set(ctx context.Context, slug string, st Status) {
	if !st.OK {
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+slug, st.Value, c.ttl).Err(); err != nil {
		logging.Debug().Err(err).Msg("Status cache write failed")
	}
}
