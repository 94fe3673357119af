// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

package models

// APIError is the structured error payload returned by all endpoints.
//
// Codes:
//   - VALIDATION_ERROR: missing or malformed request parameter (400)
//   - NOT_FOUND: slug not present in the local catalog (404)
//   - STORE_ERROR: catalog store unavailable on a single-slice endpoint (500)
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError. List endpoints also carry an empty films
// array so clients can render error states without a shape change.
type ErrorResponse struct {
	Error APIError `json:"error"`
	Films []Film   `json:"films"`
}

// HomeFeedResponse is the aggregate multi-slice payload. Keys are slice
// names; a slice that failed to load is present with an empty array.
type HomeFeedResponse struct {
	Slices map[string][]EnrichedFilm `json:"slices"`
}

// FilterResponse is the single-slice paginated browse payload.
type FilterResponse struct {
	Films      []Film     `json:"films"`
	Pagination Pagination `json:"pagination"`
}

// SearchResponse is the substring search payload.
type SearchResponse struct {
	Films []Film `json:"films"`
	Total int64  `json:"total"`
	Query string `json:"query"`
}

// DetailResponse is the single-film payload with one enrichment lookup merged in.
type DetailResponse struct {
	Film EnrichedFilm `json:"film"`
}

// FacetsResponse lists the distinct values of each classification facet,
// for building filter controls.
type FacetsResponse struct {
	Genres    []string `json:"genres"`
	Countries []string `json:"countries"`
	Years     []string `json:"years"`
	Formats   []string `json:"formats"`
}
