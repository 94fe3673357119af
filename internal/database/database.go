// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

// Package database is the catalog store adapter. It issues filtered, sorted,
// paginated reads against the MongoDB film collection and owns the
// translation from Filter/Sort values to BSON query documents. It carries no
// concurrency logic of its own; concurrent use is safe because the driver's
// connection pool is shared read-only across callers.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pavelgr/cinematek/internal/logging"
	"github.com/pavelgr/cinematek/internal/metrics"
	"github.com/pavelgr/cinematek/internal/models"
)

// ErrNotFound is returned by GetFilmBySlug when the slug has no local record.
// Distinct from store unavailability, which surfaces as a driver error.
var ErrNotFound = errors.New("film not found")

// Database wraps the Mongo client and the film collection handle.
type Database struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Connect establishes the Mongo connection and pings the deployment.
func Connect(ctx context.Context, uri, dbName, collectionName string) (*Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	logging.Info().Str("database", dbName).Str("collection", collectionName).Msg("Connected to catalog store")

	return &Database{
		client:     client,
		collection: client.Database(dbName).Collection(collectionName),
	}, nil
}

// NewWithCollection builds a Database around an existing collection handle.
// Used by integration tests that provision their own deployment.
func NewWithCollection(c *mongo.Collection) *Database {
	return &Database{collection: c}
}

// Close disconnects from the deployment.
func (d *Database) Close(ctx context.Context) error {
	if d.client == nil {
		return nil
	}
	return d.client.Disconnect(ctx)
}

// FindFilms returns the films matching filter, ordered by sort, windowed by
// skip/limit. A limit of 0 means no limit.
func (d *Database) FindFilms(ctx context.Context, filter Filter, sort Sort, skip, limit int64) ([]models.Film, error) {
	start := time.Now()
	defer func() {
		metrics.StoreQueryDuration.WithLabelValues("find").Observe(time.Since(start).Seconds())
	}()

	opts := options.Find().SetSort(sort.bson()).SetSkip(skip)
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := d.collection.Find(ctx, filter.bson(), opts)
	if err != nil {
		metrics.StoreQueryErrors.WithLabelValues("find").Inc()
		return nil, fmt.Errorf("find films: %w", err)
	}
	defer cursor.Close(ctx)

	films := make([]models.Film, 0, limit)
	for cursor.Next(ctx) {
		var f models.Film
		if err := cursor.Decode(&f); err != nil {
			metrics.StoreQueryErrors.WithLabelValues("find").Inc()
			return nil, fmt.Errorf("decode film: %w", err)
		}
		films = append(films, f)
	}
	if err := cursor.Err(); err != nil {
		metrics.StoreQueryErrors.WithLabelValues("find").Inc()
		return nil, fmt.Errorf("film cursor: %w", err)
	}

	return films, nil
}

// CountFilms returns the number of films matching filter.
func (d *Database) CountFilms(ctx context.Context, filter Filter) (int64, error) {
	start := time.Now()
	defer func() {
		metrics.StoreQueryDuration.WithLabelValues("count").Observe(time.Since(start).Seconds())
	}()

	n, err := d.collection.CountDocuments(ctx, filter.bson())
	if err != nil {
		metrics.StoreQueryErrors.WithLabelValues("count").Inc()
		return 0, fmt.Errorf("count films: %w", err)
	}
	return n, nil
}

// DistinctFacet returns the distinct tag names of one facet field across
// public films, for building filter controls.
func (d *Database) DistinctFacet(ctx context.Context, facet string) ([]string, error) {
	start := time.Now()
	defer func() {
		metrics.StoreQueryDuration.WithLabelValues("distinct").Observe(time.Since(start).Seconds())
	}()

	field := facet + ".name"
	raw, err := d.collection.Distinct(ctx, field, bson.M{"public": true})
	if err != nil {
		metrics.StoreQueryErrors.WithLabelValues("distinct").Inc()
		return nil, fmt.Errorf("distinct %s: %w", facet, err)
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			values = append(values, s)
		}
	}
	return values, nil
}

// GetFilmBySlug returns one public film, or ErrNotFound.
func (d *Database) GetFilmBySlug(ctx context.Context, slug string) (*models.Film, error) {
	start := time.Now()
	defer func() {
		metrics.StoreQueryDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	}()

	var f models.Film
	err := d.collection.FindOne(ctx, bson.M{"slug": slug, "public": true}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.StoreQueryErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("get film %q: %w", slug, err)
	}
	return &f, nil
}

// IncrementViews bumps the view counter for one film. Idempotence is not
// required here; the counter is display-only and eventually consistent with
// concurrent reads.
func (d *Database) IncrementViews(ctx context.Context, slug string) error {
	start := time.Now()
	defer func() {
		metrics.StoreQueryDuration.WithLabelValues("increment_views").Observe(time.Since(start).Seconds())
	}()

	_, err := d.collection.UpdateOne(ctx,
		bson.M{"slug": slug},
		bson.M{"$inc": bson.M{"views": 1}},
	)
	if err != nil {
		metrics.StoreQueryErrors.WithLabelValues("increment_views").Inc()
		return fmt.Errorf("increment views %q: %w", slug, err)
	}
	return nil
}
