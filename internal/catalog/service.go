// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pavelgr/cinematek/internal/database"
	"github.com/pavelgr/cinematek/internal/enrichment"
	"github.com/pavelgr/cinematek/internal/logging"
	"github.com/pavelgr/cinematek/internal/models"
)

// Enricher is the external status source with both caller-class budgets.
type Enricher interface {
	StatusLookup
	LookupDetail(ctx context.Context, slug string) enrichment.Status
}

// searchLimit caps substring search results.
const searchLimit = 50

// Service assembles endpoint payloads from the store, the slice table and
// the enrichment source. It is pure orchestration: all fault policy lives in
// the fetcher, the fan-out and the enrichment client.
type Service struct {
	store    Store
	enricher Enricher
	slices   []SliceDescriptor
}

// NewService creates the catalog service over the given collaborators.
func NewService(store Store, enricher Enricher, slices []SliceDescriptor) *Service {
	return &Service{store: store, enricher: enricher, slices: slices}
}

// HomeFeed fetches every configured slice concurrently, enriches all
// returned records concurrently, and returns the aggregate payload. It never
// fails: degraded slices come back empty and degraded lookups come back
// without a live status.
func (s *Service) HomeFeed(ctx context.Context) *models.HomeFeedResponse {
	fetched := FetchSlices(ctx, s.store, s.slices)
	return &models.HomeFeedResponse{
		Slices: EnrichSlices(ctx, s.enricher, fetched),
	}
}

// BrowseQuery is a validated browse request: at least one facet list is
// expected to be non-empty (the handler rejects unfiltered requests).
type BrowseQuery struct {
	Genres    []string
	Countries []string
	Years     []string
	Formats   []string
	Sort      database.Sort
	Page      int
	Limit     int
}

// Browse serves one paginated, filtered catalog page. Unlike the aggregate
// home feed, a store failure here is surfaced: a single-slice endpoint has
// nothing to degrade to.
func (s *Service) Browse(ctx context.Context, q BrowseQuery) (*models.FilterResponse, error) {
	filter := database.Filter{
		Genres:     q.Genres,
		Countries:  q.Countries,
		Years:      q.Years,
		Formats:    q.Formats,
		PublicOnly: true,
	}

	total, err := s.store.CountFilms(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("browse count: %w", err)
	}

	skip := int64(q.Page-1) * int64(q.Limit)
	films, err := s.store.FindFilms(ctx, filter, q.Sort, skip, int64(q.Limit))
	if err != nil {
		return nil, fmt.Errorf("browse find: %w", err)
	}

	return &models.FilterResponse{
		Films:      films,
		Pagination: models.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// Search serves a case-insensitive substring search across name, original
// name, description, director and cast, ordered by views then recency.
func (s *Service) Search(ctx context.Context, query string, limit int) (*models.SearchResponse, error) {
	if limit <= 0 || limit > searchLimit {
		limit = searchLimit
	}

	filter := database.Filter{Search: query, PublicOnly: true}

	total, err := s.store.CountFilms(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search count: %w", err)
	}

	films, err := s.store.FindFilms(ctx, filter, database.SortViews, 0, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("search find: %w", err)
	}

	return &models.SearchResponse{
		Films: films,
		Total: total,
		Query: query,
	}, nil
}

// Detail merges one catalog record with one enrichment lookup under the
// detail timeout budget. database.ErrNotFound passes through for the handler
// to translate into a 404. The view-count increment is fired asynchronously;
// it is display-only and must not delay or fail the response.
func (s *Service) Detail(ctx context.Context, slug string) (*models.DetailResponse, error) {
	film, err := s.store.GetFilmBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	enriched := models.EnrichedFilm{Film: *film}
	if st := s.enricher.LookupDetail(ctx, slug); st.OK {
		enriched.LiveStatus = st.Value
	}

	go func() {
		// Detached from the request context: the increment should land even
		// when the client disconnects right after the response.
		incCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.IncrementViews(incCtx, slug); err != nil {
			logging.Error().Str("slug", slug).Err(err).Msg("View increment failed")
		}
	}()

	return &models.DetailResponse{Film: enriched}, nil
}

// Facets returns the distinct values of every classification facet, fetched
// concurrently. Any single failure fails the call; this feeds admin/filter
// UIs where stale-but-complete beats partial.
func (s *Service) Facets(ctx context.Context) (*models.FacetsResponse, error) {
	fields := []string{"genres", "countries", "years", "formats"}
	values := make([][]string, len(fields))
	errs := make([]error, len(fields))

	var wg sync.WaitGroup
	for i, field := range fields {
		wg.Add(1)
		go func(i int, field string) {
			defer wg.Done()
			values[i], errs[i] = s.store.DistinctFacet(ctx, field)
		}(i, field)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("facet %s: %w", fields[i], err)
		}
	}

	return &models.FacetsResponse{
		Genres:    values[0],
		Countries: values[1],
		Years:     values[2],
		Formats:   values[3],
	}, nil
}
