// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for values that would only fail later at
// an awkward time: bad listener addresses, unusable URLs, nonsense budgets.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}

	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri must not be empty")
	}
	if !strings.HasPrefix(c.Mongo.URI, "mongodb://") && !strings.HasPrefix(c.Mongo.URI, "mongodb+srv://") {
		return fmt.Errorf("mongo.uri must be a mongodb:// or mongodb+srv:// URI")
	}
	if c.Mongo.Database == "" || c.Mongo.Collection == "" {
		return fmt.Errorf("mongo.database and mongo.collection must not be empty")
	}

	if c.Enrichment.BaseURL != "" {
		u, err := url.Parse(c.Enrichment.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("enrichment.base_url must be a valid http(s) URL")
		}
	}
	if c.Enrichment.ListTimeout <= 0 || c.Enrichment.DetailTimeout <= 0 {
		return fmt.Errorf("enrichment timeouts must be positive")
	}
	if c.Enrichment.DetailTimeout < c.Enrichment.ListTimeout {
		return fmt.Errorf("enrichment.detail_timeout must not be shorter than list_timeout")
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr must not be empty when redis is enabled")
	}

	if !c.RateLimit.Disabled && c.RateLimit.Requests <= 0 {
		return fmt.Errorf("ratelimit.requests must be positive")
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console")
	}

	return nil
}
