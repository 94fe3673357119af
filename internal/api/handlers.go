// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pavelgr/cinematek/internal/catalog"
	"github.com/pavelgr/cinematek/internal/database"
	"github.com/pavelgr/cinematek/internal/logging"
	"github.com/pavelgr/cinematek/internal/models"
	"github.com/pavelgr/cinematek/internal/validation"
)

// CatalogService is the slice of the catalog service the handlers consume.
type CatalogService interface {
	HomeFeed(ctx context.Context) *models.HomeFeedResponse
	Browse(ctx context.Context, q catalog.BrowseQuery) (*models.FilterResponse, error)
	Search(ctx context.Context, query string, limit int) (*models.SearchResponse, error)
	Detail(ctx context.Context, slug string) (*models.DetailResponse, error)
	Facets(ctx context.Context) (*models.FacetsResponse, error)
}

// Handler carries the HTTP handlers for the catalog endpoints.
type Handler struct {
	service CatalogService
}

// NewHandler creates the handler set over the catalog service.
func NewHandler(service CatalogService) *Handler {
	return &Handler{service: service}
}

// HomeFeed serves the aggregate multi-slice feed. It always answers 200:
// slice fetch failures degrade to empty arrays and enrichment failures to
// missing statuses inside the service.
func (h *Handler) HomeFeed(w http.ResponseWriter, r *http.Request) {
	resp := h.service.HomeFeed(r.Context())
	respondJSON(w, http.StatusOK, CacheNone, resp)
}

// filterRequest is the validated query of the browse endpoint.
type filterRequest struct {
	Page  int    `validate:"min=1"`
	Limit int    `validate:"min=1,max=100"`
	Sort  string `validate:"sortkey"`
}

// Filter serves one filtered, sorted, paginated catalog page. At least one
// facet parameter is required; an unfiltered browse is a client error, not
// an implicit full listing.
func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	q := catalog.BrowseQuery{
		Genres:    parseCommaSeparated(r.URL.Query().Get("genre")),
		Countries: parseCommaSeparated(r.URL.Query().Get("country")),
		Years:     parseCommaSeparated(r.URL.Query().Get("year")),
		Formats:   parseCommaSeparated(r.URL.Query().Get("format")),
		Page:      getIntParam(r, "page", 1),
		Limit:     getIntParam(r, "limit", 24),
	}

	if len(q.Genres) == 0 && len(q.Countries) == 0 && len(q.Years) == 0 && len(q.Formats) == 0 {
		respondError(w, http.StatusBadRequest, models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "at least one filter parameter is required (genre, country, year, format)",
		})
		return
	}

	req := filterRequest{Page: q.Page, Limit: q.Limit, Sort: r.URL.Query().Get("sort")}
	if apiErr := validation.ValidateStruct(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, *apiErr)
		return
	}
	q.Sort = database.ParseSort(req.Sort)

	resp, err := h.service.Browse(r.Context(), q)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Browse failed")
		respondError(w, http.StatusInternalServerError, models.APIError{
			Code:    "STORE_ERROR",
			Message: "catalog store unavailable",
		})
		return
	}

	respondJSON(w, http.StatusOK, CacheShortPublic, resp)
}

// Search serves case-insensitive substring search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "q is required",
		})
		return
	}

	resp, err := h.service.Search(r.Context(), query, getIntParam(r, "limit", 20))
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Search failed")
		respondError(w, http.StatusInternalServerError, models.APIError{
			Code:    "STORE_ERROR",
			Message: "catalog store unavailable",
		})
		return
	}

	respondJSON(w, http.StatusOK, CacheNone, resp)
}

// Item serves one film merged with one live status lookup.
func (h *Handler) Item(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	resp, err := h.service.Detail(r.Context(), slug)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, models.APIError{
			Code:    "NOT_FOUND",
			Message: "film not found: " + slug,
		})
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Str("slug", slug).Err(err).Msg("Detail failed")
		respondError(w, http.StatusInternalServerError, models.APIError{
			Code:    "STORE_ERROR",
			Message: "catalog store unavailable",
		})
		return
	}

	respondJSON(w, http.StatusOK, CacheLongPublic, resp)
}

// Facets serves the distinct facet values for filter controls.
func (h *Handler) Facets(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Facets(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Facets failed")
		respondError(w, http.StatusInternalServerError, models.APIError{
			Code:    "STORE_ERROR",
			Message: "catalog store unavailable",
		})
		return
	}

	respondJSON(w, http.StatusOK, CacheShortPublic, resp)
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CacheNone, map[string]string{"status": "ok"})
}
