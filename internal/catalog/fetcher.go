// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/pavelgr/cinematek/internal/database"
	"github.com/pavelgr/cinematek/internal/logging"
	"github.com/pavelgr/cinematek/internal/metrics"
	"github.com/pavelgr/cinematek/internal/models"
)

// Store is the catalog store contract consumed by the pipeline. The pipeline
// only reads; the single write (view increments) is display-only.
type Store interface {
	FindFilms(ctx context.Context, filter database.Filter, sort database.Sort, skip, limit int64) ([]models.Film, error)
	CountFilms(ctx context.Context, filter database.Filter) (int64, error)
	DistinctFacet(ctx context.Context, facet string) ([]string, error)
	GetFilmBySlug(ctx context.Context, slug string) (*models.Film, error)
	IncrementViews(ctx context.Context, slug string) error
}

// FetchSlices runs every descriptor's query concurrently and returns a map
// from slice name to its ordered record list. A slice whose store read fails
// degrades to an empty list for that name only; the aggregate call never
// aborts on a single store error, so one weak dependency cannot blank the
// whole page.
func FetchSlices(ctx context.Context, store Store, descriptors []SliceDescriptor) map[string][]models.Film {
	results := make(map[string][]models.Film, len(descriptors))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, d := range descriptors {
		wg.Add(1)
		go func(d SliceDescriptor) {
			defer wg.Done()

			films, err := fetchSlice(ctx, store, d)
			if err != nil {
				metrics.SliceFetchTotal.WithLabelValues(d.Name, "error").Inc()
				logging.Ctx(ctx).Error().Str("slice", d.Name).Err(err).Msg("Slice fetch failed")
				films = []models.Film{}
			}

			mu.Lock()
			results[d.Name] = films
			mu.Unlock()
		}(d)
	}
	wg.Wait()

	return results
}

// fetchSlice runs one slice's primary query and, when the slice under-fills
// and carries a backfill rule, exactly one relaxed supplementary query.
// The supplementary query excludes the slugs already returned and its
// results are appended after the unchanged primary block, so a slice issues
// at most two store queries and never permutes the primary order.
func fetchSlice(ctx context.Context, store Store, d SliceDescriptor) ([]models.Film, error) {
	primary, err := store.FindFilms(ctx, d.Filter, d.Sort, 0, int64(d.Limit))
	if err != nil {
		return nil, fmt.Errorf("slice %s: %w", d.Name, err)
	}

	if d.Backfill == nil || len(primary) >= d.Limit {
		metrics.SliceFetchTotal.WithLabelValues(d.Name, "ok").Inc()
		return primary, nil
	}

	seen := make(map[string]struct{}, len(primary))
	slugs := make([]string, len(primary))
	for i, f := range primary {
		seen[f.Slug] = struct{}{}
		slugs[i] = f.Slug
	}

	relaxed := d.Backfill.Filter
	relaxed.ExcludeSlugs = slugs

	extra, err := store.FindFilms(ctx, relaxed, d.Backfill.Sort, 0, int64(d.Limit-len(primary)))
	if err != nil {
		// A failed backfill degrades to the short primary list.
		logging.Ctx(ctx).Warn().Str("slice", d.Name).Err(err).Msg("Backfill query failed")
		return primary, nil
	}

	// The store already excludes the primary slugs; the seen check guards
	// against a replica lagging behind the primary query.
	films := primary
	for _, f := range extra {
		if _, dup := seen[f.Slug]; dup {
			continue
		}
		if len(films) >= d.Limit {
			break
		}
		films = append(films, f)
	}

	metrics.SliceFetchTotal.WithLabelValues(d.Name, "backfilled").Inc()
	return films, nil
}
