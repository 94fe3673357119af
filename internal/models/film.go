// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

// Package models defines the shared data model for the catalog service:
// film records as stored in the catalog collection, their enriched variants
// returned by the aggregation pipeline, and the API response envelopes.
package models

import "time"

// Tag is a single classification value within a facet. Facets keep their
// upstream ordering, so a facet is an ordered slice of tags rather than a set.
type Tag struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// Film is the authoritative catalog record. The aggregation pipeline only
// reads films; writes come from the upstream catalog feed and admin tooling.
//
// Created and Modified carry provenance timestamps from the upstream feed,
// not local edit time.
type Film struct {
	Slug        string `json:"slug" bson:"slug"`
	Name        string `json:"name" bson:"name"`
	OrigName    string `json:"orig_name" bson:"orig_name"`
	Poster      string `json:"poster" bson:"poster"`
	Backdrop    string `json:"backdrop,omitempty" bson:"backdrop,omitempty"`
	Description string `json:"description" bson:"description"`

	Genres    []Tag `json:"genres" bson:"genres"`
	Countries []Tag `json:"countries" bson:"countries"`
	Years     []Tag `json:"years" bson:"years"`
	Formats   []Tag `json:"formats" bson:"formats"`

	Director string   `json:"director,omitempty" bson:"director,omitempty"`
	Cast     []string `json:"cast,omitempty" bson:"cast,omitempty"`

	// Rating is the local editorial rating on a 0..10 scale.
	Rating        float64 `json:"rating" bson:"rating"`
	Views         int64   `json:"views" bson:"views"`
	TotalEpisodes int     `json:"total_episodes" bson:"total_episodes"`

	Public bool `json:"-" bson:"public"`

	Created  time.Time `json:"created" bson:"created"`
	Modified time.Time `json:"modified" bson:"modified"`
}

// EnrichedFilm is a Film plus the live availability status fetched from the
// external metadata source. LiveStatus is best-effort: an empty value means
// either the source had no data or the lookup failed, and callers must not
// distinguish the two.
type EnrichedFilm struct {
	Film
	LiveStatus string `json:"live_status,omitempty"`
}
