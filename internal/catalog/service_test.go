// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/pavelgr/cinematek/internal/database"
	"github.com/pavelgr/cinematek/internal/enrichment"
	"github.com/pavelgr/cinematek/internal/models"
)

// fakeEnricher implements Enricher with fixed statuses per slug.
type fakeEnricher struct {
	statuses map[string]string
}

func (e *fakeEnricher) Lookup(_ context.Context, slug string) enrichment.Status {
	if v, ok := e.statuses[slug]; ok {
		return enrichment.Status{Value: v, OK: true}
	}
	return enrichment.Absent
}

func (e *fakeEnricher) LookupDetail(ctx context.Context, slug string) enrichment.Status {
	return e.Lookup(ctx, slug)
}

func TestHomeFeed_EnrichesEverySlice(t *testing.T) {
	store := &fakeStore{
		find: func(filter database.Filter, sort database.Sort, skip, limit int64) ([]models.Film, error) {
			if sort == database.SortViews {
				return filmsWithSlugs("v1", "v2"), nil
			}
			return filmsWithSlugs("l1", "l2"), nil
		},
	}
	enricher := &fakeEnricher{statuses: map[string]string{
		"l1": "episode 3/12",
		"v2": "complete",
	}}

	slices := []SliceDescriptor{
		{Name: "latest", Filter: database.Filter{PublicOnly: true}, Sort: database.SortLatest, Limit: 2},
		{Name: "most_viewed", Filter: database.Filter{PublicOnly: true}, Sort: database.SortViews, Limit: 2},
	}

	svc := NewService(store, enricher, slices)
	feed := svc.HomeFeed(context.Background())

	latest := feed.Slices["latest"]
	if len(latest) != 2 || latest[0].LiveStatus != "episode 3/12" || latest[1].LiveStatus != "" {
		t.Errorf("latest slice enriched wrong: %+v", latest)
	}
	viewed := feed.Slices["most_viewed"]
	if len(viewed) != 2 || viewed[0].LiveStatus != "" || viewed[1].LiveStatus != "complete" {
		t.Errorf("most_viewed slice enriched wrong: %+v", viewed)
	}
}

func TestBrowse_PaginatesAndFilters(t *testing.T) {
	var gotFilter database.Filter
	var gotSkip, gotLimit int64
	store := &fakeStore{
		count: func(filter database.Filter) (int64, error) { return 35, nil },
		find: func(filter database.Filter, sort database.Sort, skip, limit int64) ([]models.Film, error) {
			gotFilter, gotSkip, gotLimit = filter, skip, limit
			return filmsWithSlugs("f1", "f2"), nil
		},
	}

	svc := NewService(store, &fakeEnricher{}, nil)
	resp, err := svc.Browse(context.Background(), BrowseQuery{
		Genres: []string{"drama"},
		Years:  []string{"2025"},
		Sort:   database.SortViews,
		Page:   2,
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}

	if !gotFilter.PublicOnly {
		t.Error("browse filter must restrict to public films")
	}
	if !reflect.DeepEqual(gotFilter.Genres, []string{"drama"}) {
		t.Errorf("filter genres = %v", gotFilter.Genres)
	}
	if gotSkip != 10 || gotLimit != 10 {
		t.Errorf("window = (%d, %d), want (10, 10)", gotSkip, gotLimit)
	}

	want := models.NewPagination(2, 10, 35)
	if resp.Pagination != want {
		t.Errorf("pagination = %+v, want %+v", resp.Pagination, want)
	}
}

func TestBrowse_StoreErrorSurfaces(t *testing.T) {
	store := &fakeStore{
		count: func(filter database.Filter) (int64, error) { return 0, errors.New("store down") },
		find: func(filter database.Filter, sort database.Sort, skip, limit int64) ([]models.Film, error) {
			return nil, nil
		},
	}

	svc := NewService(store, &fakeEnricher{}, nil)
	if _, err := svc.Browse(context.Background(), BrowseQuery{Page: 1, Limit: 10}); err == nil {
		t.Error("single-slice endpoint must surface a store failure")
	}
}

func TestSearch_QueryShape(t *testing.T) {
	var gotFilter database.Filter
	var gotSort database.Sort
	store := &fakeStore{
		count: func(filter database.Filter) (int64, error) { return 2, nil },
		find: func(filter database.Filter, sort database.Sort, skip, limit int64) ([]models.Film, error) {
			gotFilter, gotSort = filter, sort
			return filmsWithSlugs("m1", "m2"), nil
		},
	}

	svc := NewService(store, &fakeEnricher{}, nil)
	resp, err := svc.Search(context.Background(), "ghost", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotFilter.Search != "ghost" || !gotFilter.PublicOnly {
		t.Errorf("search filter = %+v", gotFilter)
	}
	if gotSort != database.SortViews {
		t.Errorf("search sort = %v, want views-first ordering", gotSort)
	}
	if resp.Total != 2 || resp.Query != "ghost" || len(resp.Films) != 2 {
		t.Errorf("search response = %+v", resp)
	}
}

func TestDetail_MergesEnrichmentAndCountsView(t *testing.T) {
	incremented := make(chan string, 1)
	store := &fakeStore{
		find: func(filter database.Filter, sort database.Sort, skip, limit int64) ([]models.Film, error) {
			return nil, nil
		},
		get: func(slug string) (*models.Film, error) {
			return &models.Film{Slug: slug, Name: "Some Film", Public: true}, nil
		},
		inc: func(slug string) error {
			incremented <- slug
			return nil
		},
	}
	enricher := &fakeEnricher{statuses: map[string]string{"some-film": "episode 12/24"}}

	svc := NewService(store, enricher, nil)
	resp, err := svc.Detail(context.Background(), "some-film")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}

	if resp.Film.Slug != "some-film" || resp.Film.LiveStatus != "episode 12/24" {
		t.Errorf("detail = %+v", resp.Film)
	}

	select {
	case slug := <-incremented:
		if slug != "some-film" {
			t.Errorf("incremented %q", slug)
		}
	case <-time.After(2 * time.Second):
		t.Error("view increment never issued")
	}
}

func TestDetail_NotFoundPassesThrough(t *testing.T) {
	store := &fakeStore{
		find: func(filter database.Filter, sort database.Sort, skip, limit int64) ([]models.Film, error) {
			return nil, nil
		},
		get: func(slug string) (*models.Film, error) { return nil, database.ErrNotFound },
	}

	svc := NewService(store, &fakeEnricher{}, nil)
	_, err := svc.Detail(context.Background(), "missing")
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFacets_CollectsAllFields(t *testing.T) {
	store := &fakeStore{
		find: func(filter database.Filter, sort database.Sort, skip, limit int64) ([]models.Film, error) {
			return nil, nil
		},
		distinct: func(facet string) ([]string, error) {
			return []string{facet + "-1", facet + "-2"}, nil
		},
	}

	svc := NewService(store, &fakeEnricher{}, nil)
	resp, err := svc.Facets(context.Background())
	if err != nil {
		t.Fatalf("Facets: %v", err)
	}

	if !reflect.DeepEqual(resp.Genres, []string{"genres-1", "genres-2"}) {
		t.Errorf("genres = %v", resp.Genres)
	}
	if !reflect.DeepEqual(resp.Formats, []string{"formats-1", "formats-2"}) {
		t.Errorf("formats = %v", resp.Formats)
	}
}

func TestFacets_SingleFailureFails(t *testing.T) {
	store := &fakeStore{
		find: func(filter database.Filter, sort database.Sort, skip, limit int64) ([]models.Film, error) {
			return nil, nil
		},
		distinct: func(facet string) ([]string, error) {
			if facet == "years" {
				return nil, errors.New("index missing")
			}
			return []string{"v"}, nil
		},
	}

	svc := NewService(store, &fakeEnricher{}, nil)
	if _, err := svc.Facets(context.Background()); err == nil {
		t.Error("Facets should fail when any facet query fails")
	}
}
