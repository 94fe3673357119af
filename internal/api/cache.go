// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

package api

// CacheDirective selects the Cache-Control policy of a response class.
//
// Aggregated multi-slice responses are never cached: their composition moves
// with every admin edit and view-count increment. Paginated single-filter
// lists are stable enough for short shared caching. Detail lookups get a
// slightly longer window; their only volatile input, the live status, is
// already bounded by its own lookup timeout.
type CacheDirective int

const (
	CacheNone CacheDirective = iota
	CacheShortPublic
	CacheLongPublic
)

// Header renders the directive as a Cache-Control header value.
func (d CacheDirective) Header() string {
	switch d {
	case CacheShortPublic:
		return "public, s-maxage=120, stale-while-revalidate=300"
	case CacheLongPublic:
		return "public, s-maxage=300, stale-while-revalidate=600"
	default:
		return "no-store"
	}
}
