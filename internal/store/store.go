// Package store defines the persistent metadata cache contract and its
// entry type. The cache is keyed by the raw (title, author) pair from the
// ingestion source of truth, not by the normalized search title.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/shelfgraph/shelfgraph/internal/domain"
)

// DefaultTTL is the staleness window for cache entries.
const DefaultTTL = 30 * 24 * time.Hour

// CacheEntry is one persisted metadata record, created on the first lookup
// attempt for a (title, author) pair and updated in place thereafter. It is
// never deleted by normal operation.
type CacheEntry struct {
	Title  string
	Author string

	Metadata domain.PartialMetadata

	// WorkAttempted records that the rich-metadata provider family was
	// queried, found something or not. CoverAttempted does the same for
	// the cover-only family. A fresh entry with a flag set and no
	// discovered id is a negative cache hit for that family.
	WorkAttempted  bool
	CoverAttempted bool

	FetchedAt time.Time

	// Stale is computed by the store at read time from its clock and TTL.
	Stale bool
}

// NegativeWorkHit reports whether a fresh entry says the rich family was
// already tried and found nothing.
func (e *CacheEntry) NegativeWorkHit() bool {
	return !e.Stale && e.WorkAttempted && !e.Metadata.HasIdentifier()
}

// CacheKey derives the stable storage key from the raw (title, author)
// pair. Hashing keeps arbitrary titles safe as a primary key.
func CacheKey(title, author string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + author))
	return hex.EncodeToString(sum[:])
}

// UpsertFields is what one enrichment pass writes back: the merged metadata
// and which provider families were actually queried this pass.
type UpsertFields struct {
	Metadata       *domain.PartialMetadata
	WorkAttempted  bool
	CoverAttempted bool
}

// MetadataCache is the persistence contract the enrichment orchestrator
// depends on.
type MetadataCache interface {
	// Get returns nil, nil when no entry exists.
	Get(ctx context.Context, title, author string) (*CacheEntry, error)
	// Upsert creates or updates the entry in place. A previously
	// discovered field is never regressed to empty, and attempted flags
	// only ever turn on.
	Upsert(ctx context.Context, title, author string, fields UpsertFields) error
}
