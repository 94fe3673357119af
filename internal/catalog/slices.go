// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

// Package catalog implements the aggregation and enrichment pipeline: the
// declarative slice table for the home feed, the parallel slice fetcher with
// single-shot backfill, the order-preserving enrichment fan-out, and the
// service layer that assembles endpoint payloads from them.
package catalog

import (
	"strconv"
	"time"

	"github.com/pavelgr/cinematek/internal/database"
)

// BackfillRule is the relaxed supplementary query issued when a slice's
// primary filter under-fills. The relaxed filter intentionally carries its
// own sort: the primary and supplemental blocks are concatenated as-is and
// never re-sorted under one comparator.
type BackfillRule struct {
	Filter database.Filter
	Sort   database.Sort
}

// SliceDescriptor declares one named, independently filtered and sorted
// subset of the catalog. Descriptors are static configuration resolved at
// process start; they have no other lifecycle.
type SliceDescriptor struct {
	Name     string
	Filter   database.Filter
	Sort     database.Sort
	Limit    int
	Backfill *BackfillRule
}

// DefaultSlices returns the home-feed slice table. The current-year picks
// slice is the only one with a backfill rule: early in a year the primary
// filter is sparse, and the slice falls back to the newest titles of any
// year rather than rendering short.
func DefaultSlices(now time.Time) []SliceDescriptor {
	year := strconv.Itoa(now.Year())

	return []SliceDescriptor{
		{
			Name:   "latest",
			Filter: database.Filter{PublicOnly: true},
			Sort:   database.SortLatest,
			Limit:  12,
		},
		{
			Name:   "most_viewed",
			Filter: database.Filter{PublicOnly: true},
			Sort:   database.SortViews,
			Limit:  12,
		},
		{
			Name:   "top_rated",
			Filter: database.Filter{PublicOnly: true},
			Sort:   database.SortRating,
			Limit:  12,
		},
		{
			Name:   "picks_of_the_year",
			Filter: database.Filter{PublicOnly: true, Years: []string{year}},
			Sort:   database.SortRating,
			Limit:  6,
			Backfill: &BackfillRule{
				Filter: database.Filter{PublicOnly: true},
				Sort:   database.SortYearLatest,
			},
		},
		{
			Name:   "films",
			Filter: database.Filter{PublicOnly: true, Formats: []string{"film"}},
			Sort:   database.SortLatest,
			Limit:  12,
		},
		{
			Name:   "series",
			Filter: database.Filter{PublicOnly: true, Formats: []string{"serial"}},
			Sort:   database.SortLatest,
			Limit:  12,
		},
	}
}
