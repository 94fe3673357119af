// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

package database

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter is the structured predicate over film records. Facet predicates are
// combined with AND across facets; within a facet the semantics differ on
// purpose:
//
//   - Genres refine: a film must carry ALL requested genres ($all containment).
//   - Countries, Years and Formats broaden: ANY requested value matches ($in).
//
// The zero Filter matches every public film when PublicOnly is set, or every
// film otherwise.
type Filter struct {
	Genres    []string
	Countries []string
	Years     []string
	Formats   []string

	// ExcludeSlugs removes already-returned records, used by the backfill
	// supplementary query.
	ExcludeSlugs []string

	// Search is a case-insensitive substring matched across name, original
	// name, description, director and cast.
	Search string

	PublicOnly bool
}

// Empty reports whether the filter carries no facet or search predicate.
// Exclusion and visibility alone do not make a filter non-empty.
func (f Filter) Empty() bool {
	return len(f.Genres) == 0 &&
		len(f.Countries) == 0 &&
		len(f.Years) == 0 &&
		len(f.Formats) == 0 &&
		f.Search == ""
}

// bson renders the filter as a Mongo query document.
func (f Filter) bson() bson.M {
	q := bson.M{}

	if f.PublicOnly {
		q["public"] = true
	}
	if len(f.Genres) > 0 {
		q["genres.id"] = bson.M{"$all": f.Genres}
	}
	if len(f.Countries) > 0 {
		q["countries.id"] = bson.M{"$in": f.Countries}
	}
	if len(f.Years) > 0 {
		q["years.id"] = bson.M{"$in": f.Years}
	}
	if len(f.Formats) > 0 {
		q["formats.id"] = bson.M{"$in": f.Formats}
	}
	if len(f.ExcludeSlugs) > 0 {
		q["slug"] = bson.M{"$nin": f.ExcludeSlugs}
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"orig_name": re},
			bson.M{"description": re},
			bson.M{"director": re},
			bson.M{"cast": re},
		}
	}

	return q
}

// Sort identifies one of the supported result orderings. Keeping this an
// enum rather than raw sort documents lets slice descriptors and fakes refer
// to orderings by name.
type Sort int

const (
	// SortLatest orders by feed modification time, newest first.
	SortLatest Sort = iota

	// SortViews orders by view count, ties broken by recency.
	SortViews

	// SortRating orders by rating, ties broken by recency.
	SortRating

	// SortYearLatest orders by year facet descending, then recency. Used by
	// backfill rules that relax a current-year filter to any year.
	SortYearLatest
)

func (s Sort) bson() bson.D {
	switch s {
	case SortViews:
		return bson.D{{Key: "views", Value: -1}, {Key: "modified", Value: -1}}
	case SortRating:
		return bson.D{{Key: "rating", Value: -1}, {Key: "modified", Value: -1}}
	case SortYearLatest:
		return bson.D{{Key: "years.id", Value: -1}, {Key: "modified", Value: -1}}
	default:
		return bson.D{{Key: "modified", Value: -1}}
	}
}

// String returns the sort key name as accepted by the browse endpoint.
func (s Sort) String() string {
	switch s {
	case SortViews:
		return "views"
	case SortRating:
		return "rating"
	case SortYearLatest:
		return "year_latest"
	default:
		return "latest"
	}
}

// ParseSort maps a browse endpoint sort parameter to a Sort. Unknown or
// empty values fall back to SortLatest.
func ParseSort(key string) Sort {
	switch key {
	case "views":
		return SortViews
	case "rating":
		return SortRating
	default:
		return SortLatest
	}
}
