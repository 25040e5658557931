// Package service contains the orchestration layer: metadata enrichment,
// graph-based recommendations, and the background refresher.
package service

import (
	"context"
	"log/slog"

	"github.com/shelfgraph/shelfgraph/internal/domain"
	"github.com/shelfgraph/shelfgraph/internal/metadata"
	"github.com/shelfgraph/shelfgraph/internal/normalize"
	"github.com/shelfgraph/shelfgraph/internal/store"
)

// Enricher fills a book record's metadata from the catalog chain,
// consulting the persistent cache before any network call. The rich
// catalog runs first; cover-only catalogs run in order until one
// supplies a cover.
type Enricher struct {
	cache  store.MetadataCache
	work   metadata.WorkSearcher
	covers []metadata.CoverSearcher
	logger *slog.Logger
}

// NewEnricher wires the enrichment chain. covers is walked in order.
func NewEnricher(cache store.MetadataCache, work metadata.WorkSearcher, covers []metadata.CoverSearcher, logger *slog.Logger) *Enricher {
	return &Enricher{
		cache:  cache,
		work:   work,
		covers: covers,
		logger: logger,
	}
}

// Enrich mutates rec in place with fill-once semantics. Catalog
// failures degrade to missing metadata, never to an error; the one
// hard failure mode is context cancellation.
func (e *Enricher) Enrich(ctx context.Context, rec *domain.BookRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Catalogs are queried with the cleaned-up title; the cache is keyed
	// on the raw pair so distinct ingested titles never share an entry.
	searchTitle := normalize.Title(rec.Title)

	entry, err := e.cache.Get(ctx, rec.Title, rec.Author)
	if err != nil {
		e.logger.Warn("metadata cache read failed", "book", rec.ID, "error", err)
		entry = nil
	}
	if entry != nil {
		rec.Apply(&entry.Metadata)
	}

	// Fresh entries carry the outcome of both catalog families,
	// including negative lookups. Nothing left to fetch.
	workDone := entry != nil && !entry.Stale && entry.WorkAttempted
	coverDone := entry != nil && !entry.Stale && entry.CoverAttempted
	if workDone && (coverDone || rec.CoverURL != "") {
		return nil
	}

	fetched := &domain.PartialMetadata{}
	var fields store.UpsertFields

	if !workDone {
		meta, err := e.work.SearchWork(ctx, searchTitle, rec.Author)
		switch {
		case err != nil:
			e.logger.Warn("work lookup failed",
				"catalog", e.work.Name(),
				"book", rec.ID,
				"error", err,
			)
		default:
			fields.WorkAttempted = true
			if meta != nil {
				fetched.MergeFrom(meta)
			}
		}
		rec.Apply(fetched)
	}

	if rec.CoverURL == "" && !coverDone {
		attempted := false
		for _, c := range e.covers {
			url, err := c.SearchCover(ctx, searchTitle, rec.Author)
			if err != nil {
				e.logger.Warn("cover lookup failed, trying next catalog",
					"catalog", c.Name(),
					"book", rec.ID,
					"error", err,
				)
				continue
			}
			attempted = true
			if url != "" {
				fetched.CoverURL = url
				break
			}
		}
		fields.CoverAttempted = attempted
		rec.Apply(fetched)
	}

	if fields.WorkAttempted || fields.CoverAttempted {
		fields.Metadata = fetched
		if err := e.cache.Upsert(ctx, rec.Title, rec.Author, fields); err != nil {
			// A failed cache write costs a refetch later, nothing more.
			e.logger.Warn("metadata cache write failed", "book", rec.ID, "error", err)
		}
	}
	return nil
}

// EnrichAll enriches records sequentially, stopping on cancellation.
func (e *Enricher) EnrichAll(ctx context.Context, records []*domain.BookRecord) error {
	for _, rec := range records {
		if err := e.Enrich(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
