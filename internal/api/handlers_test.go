// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/pavelgr/cinematek/internal/catalog"
	"github.com/pavelgr/cinematek/internal/database"
	"github.com/pavelgr/cinematek/internal/models"
)

// fakeService implements CatalogService with canned responses.
type fakeService struct {
	homeFeed *models.HomeFeedResponse
	browse   func(q catalog.BrowseQuery) (*models.FilterResponse, error)
	search   func(query string, limit int) (*models.SearchResponse, error)
	detail   func(slug string) (*models.DetailResponse, error)
	facets   func() (*models.FacetsResponse, error)
}

func (s *fakeService) HomeFeed(context.Context) *models.HomeFeedResponse { return s.homeFeed }

func (s *fakeService) Browse(_ context.Context, q catalog.BrowseQuery) (*models.FilterResponse, error) {
	return s.browse(q)
}

func (s *fakeService) Search(_ context.Context, query string, limit int) (*models.SearchResponse, error) {
	return s.search(query, limit)
}

func (s *fakeService) Detail(_ context.Context, slug string) (*models.DetailResponse, error) {
	return s.detail(slug)
}

func (s *fakeService) Facets(context.Context) (*models.FacetsResponse, error) {
	if s.facets == nil {
		return &models.FacetsResponse{}, nil
	}
	return s.facets()
}

func serve(t *testing.T, svc CatalogService, target string) *httptest.ResponseRecorder {
	t.Helper()

	router := NewRouter(NewHandler(svc), RouterConfig{RateLimitDisabled: true})
	rec := httptest.NewRecorder()
	router.Setup().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHomeFeed_DegradedSliceStillOK(t *testing.T) {
	svc := &fakeService{
		homeFeed: &models.HomeFeedResponse{
			Slices: map[string][]models.EnrichedFilm{
				"latest":   {{Film: models.Film{Slug: "a"}, LiveStatus: "complete"}},
				"trending": {},
			},
		},
	}

	rec := serve(t, svc, "/catalog/home-feed")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite a degraded slice", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store for the aggregate feed", got)
	}

	var resp models.HomeFeedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if trending, ok := resp.Slices["trending"]; !ok || len(trending) != 0 {
		t.Errorf("trending = %v, want a present empty array", trending)
	}
	if len(resp.Slices["latest"]) != 1 {
		t.Errorf("latest = %v, want populated", resp.Slices["latest"])
	}
}

func TestFilter_RequiresAFilterParameter(t *testing.T) {
	svc := &fakeService{
		browse: func(q catalog.BrowseQuery) (*models.FilterResponse, error) {
			t.Error("pipeline reached without a filter parameter")
			return nil, nil
		},
	}

	rec := serve(t, svc, "/catalog/filter?page=1")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error code = %q", resp.Error.Code)
	}
	if resp.Films == nil || len(resp.Films) != 0 {
		t.Errorf("films = %v, want a present empty array", resp.Films)
	}
}

func TestFilter_PassesQueryThrough(t *testing.T) {
	var got catalog.BrowseQuery
	svc := &fakeService{
		browse: func(q catalog.BrowseQuery) (*models.FilterResponse, error) {
			got = q
			return &models.FilterResponse{
				Films:      []models.Film{{Slug: "x"}},
				Pagination: models.NewPagination(q.Page, q.Limit, 1),
			}, nil
		},
	}

	rec := serve(t, svc, "/catalog/filter?genre=drama,thriller&country=jp&sort=views&page=2&limit=10")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(got.Genres) != 2 || got.Genres[0] != "drama" {
		t.Errorf("genres = %v", got.Genres)
	}
	if len(got.Countries) != 1 || got.Countries[0] != "jp" {
		t.Errorf("countries = %v", got.Countries)
	}
	if got.Sort != database.SortViews {
		t.Errorf("sort = %v, want views", got.Sort)
	}
	if got.Page != 2 || got.Limit != 10 {
		t.Errorf("window = page %d limit %d", got.Page, got.Limit)
	}

	if got := rec.Header().Get("Cache-Control"); got != "public, s-maxage=120, stale-while-revalidate=300" {
		t.Errorf("Cache-Control = %q, want the short public directive", got)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("cacheable response missing ETag")
	}
}

func TestFilter_RejectsBadPagination(t *testing.T) {
	svc := &fakeService{
		browse: func(q catalog.BrowseQuery) (*models.FilterResponse, error) {
			t.Error("pipeline reached with invalid pagination")
			return nil, nil
		},
	}

	for _, target := range []string{
		"/catalog/filter?genre=drama&page=0",
		"/catalog/filter?genre=drama&limit=1000",
		"/catalog/filter?genre=drama&sort=alphabetical",
	} {
		if rec := serve(t, svc, target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestFilter_StoreErrorIs500(t *testing.T) {
	svc := &fakeService{
		browse: func(q catalog.BrowseQuery) (*models.FilterResponse, error) {
			return nil, errors.New("store down")
		},
	}

	rec := serve(t, svc, "/catalog/filter?genre=drama")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 on a single-slice endpoint", rec.Code)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error.Code != "STORE_ERROR" {
		t.Errorf("error code = %q", resp.Error.Code)
	}
}

func TestSearch_RequiresQuery(t *testing.T) {
	svc := &fakeService{
		search: func(query string, limit int) (*models.SearchResponse, error) {
			t.Error("pipeline reached without a query")
			return nil, nil
		},
	}

	for _, target := range []string{"/catalog/search", "/catalog/search?q=", "/catalog/search?q=%20%20"} {
		if rec := serve(t, svc, target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestSearch_EchoesQuery(t *testing.T) {
	svc := &fakeService{
		search: func(query string, limit int) (*models.SearchResponse, error) {
			return &models.SearchResponse{Films: []models.Film{}, Total: 0, Query: query}, nil
		},
	}

	rec := serve(t, svc, "/catalog/search?q=ghost")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Query != "ghost" {
		t.Errorf("query = %q", resp.Query)
	}
}

func TestItem_NotFound(t *testing.T) {
	svc := &fakeService{
		detail: func(slug string) (*models.DetailResponse, error) {
			return nil, database.ErrNotFound
		},
	}

	rec := serve(t, svc, "/catalog/item/missing-film")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("error code = %q, not-found must be distinct from store errors", resp.Error.Code)
	}
}

func TestItem_CacheDirective(t *testing.T) {
	svc := &fakeService{
		detail: func(slug string) (*models.DetailResponse, error) {
			return &models.DetailResponse{
				Film: models.EnrichedFilm{Film: models.Film{Slug: slug}, LiveStatus: "episode 5/10"},
			}, nil
		},
	}

	rec := serve(t, svc, "/catalog/item/some-film")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, s-maxage=300, stale-while-revalidate=600" {
		t.Errorf("Cache-Control = %q, want the long public directive", got)
	}
}

func TestHealth(t *testing.T) {
	rec := serve(t, &fakeService{}, "/healthz")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
