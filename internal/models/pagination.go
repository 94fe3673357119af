// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

package models

// Pagination describes the position of one page within a filtered result set.
// It is derived from a count query, never stored.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPagination computes pagination metadata for the given page position.
// TotalPages is ceil(totalCount/limit); an empty result set has zero pages
// and neither neighbor.
func NewPagination(page, limit int, totalCount int64) Pagination {
	if limit < 1 {
		limit = 1
	}
	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
