// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

package catalog

import (
	"context"
	"sync"

	"github.com/pavelgr/cinematek/internal/enrichment"
	"github.com/pavelgr/cinematek/internal/models"
)

// StatusLookup is the per-record external lookup consumed by the fan-out.
// Implementations are fail-open: they return an absent status instead of an
// error, within their own timeout budget.
type StatusLookup interface {
	Lookup(ctx context.Context, slug string) enrichment.Status
}

// EnrichFilms augments an ordered film list with live statuses. One lookup
// runs per record, all concurrently; each goroutine writes only its own
// index, so the output order always matches the input order regardless of
// completion order. The call waits for the full set — partial results are
// not worth the complexity when every lookup already fails open within its
// timeout.
func EnrichFilms(ctx context.Context, lookup StatusLookup, films []models.Film) []models.EnrichedFilm {
	enriched := make([]models.EnrichedFilm, len(films))

	var wg sync.WaitGroup
	for i, f := range films {
		enriched[i].Film = f

		wg.Add(1)
		go func(i int, slug string) {
			defer wg.Done()
			if st := lookup.Lookup(ctx, slug); st.OK {
				enriched[i].LiveStatus = st.Value
			}
		}(i, f.Slug)
	}
	wg.Wait()

	return enriched
}

// EnrichSlices fans out EnrichFilms across all slices concurrently. Total
// concurrency is the record count across all slices; acceptable because the
// lookups are network-bound and individually bounded by their timeout, so
// wall-clock cost approximates the slowest single lookup.
func EnrichSlices(ctx context.Context, lookup StatusLookup, slices map[string][]models.Film) map[string][]models.EnrichedFilm {
	out := make(map[string][]models.EnrichedFilm, len(slices))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, films := range slices {
		wg.Add(1)
		go func(name string, films []models.Film) {
			defer wg.Done()

			enriched := EnrichFilms(ctx, lookup, films)

			mu.Lock()
			out[name] = enriched
			mu.Unlock()
		}(name, films)
	}
	wg.Wait()

	return out
}
