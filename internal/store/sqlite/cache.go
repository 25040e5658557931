package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"

	"github.com/shelfgraph/shelfgraph/internal/domain"
	"github.com/shelfgraph/shelfgraph/internal/store"
)

// cacheColumns is the ordered list of columns selected in cache queries.
// Must match the scan order in scanEntry.
const cacheColumns = `title, author, openlibrary_id, google_id, inventaire_uri,
	cover_url, subjects, award_slugs, description, page_count,
	first_publish_year, external_rating, work_attempted, cover_attempted, fetched_at`

// scanEntry scans a sql.Row (or sql.Rows via its Scan method) into a
// store.CacheEntry.
func scanEntry(scanner interface{ Scan(dest ...any) error }) (*store.CacheEntry, error) {
	var (
		e             store.CacheEntry
		subjectsJSON  string
		awardsJSON    string
		workAttempt   int
		coverAttempt  int
		fetchedAtText string
	)

	err := scanner.Scan(
		&e.Title,
		&e.Author,
		&e.Metadata.OpenLibraryID,
		&e.Metadata.GoogleID,
		&e.Metadata.InventaireURI,
		&e.Metadata.CoverURL,
		&subjectsJSON,
		&awardsJSON,
		&e.Metadata.Description,
		&e.Metadata.PageCount,
		&e.Metadata.FirstPublishYear,
		&e.Metadata.ExternalRating,
		&workAttempt,
		&coverAttempt,
		&fetchedAtText,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(subjectsJSON), &e.Metadata.Subjects); err != nil {
		return nil, fmt.Errorf("parse subjects: %w", err)
	}
	if err := json.Unmarshal([]byte(awardsJSON), &e.Metadata.AwardSlugs); err != nil {
		return nil, fmt.Errorf("parse award slugs: %w", err)
	}

	e.WorkAttempted = workAttempt != 0
	e.CoverAttempted = coverAttempt != 0

	e.FetchedAt, err = parseTime(fetchedAtText)
	if err != nil {
		return nil, fmt.Errorf("parse fetched_at: %w", err)
	}

	return &e, nil
}

// Get retrieves the cache entry for a (title, author) pair.
// Returns nil, nil when no entry exists. Staleness is computed against the
// store's clock and TTL and reported on the entry; stale entries are still
// returned so callers can merge rather than start from nothing.
func (s *Store) Get(ctx context.Context, title, author string) (*store.CacheEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+cacheColumns+` FROM book_metadata_cache WHERE cache_key = ?`,
		store.CacheKey(title, author))

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entry.Stale = s.now().Sub(entry.FetchedAt) > s.ttl
	return entry, nil
}

// Upsert creates or updates the entry for a (title, author) pair in place.
// Metadata fields follow fill-if-absent against what is already stored, so
// a previously discovered field is never regressed to empty; attempted
// flags only ever turn on. fetched_at is refreshed on every write.
func (s *Store) Upsert(ctx context.Context, title, author string, fields store.UpsertFields) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+cacheColumns+` FROM book_metadata_cache WHERE cache_key = ?`,
		store.CacheKey(title, author))

	existing, err := scanEntry(row)
	if err != nil && err != sql.ErrNoRows {
		return err
	}

	merged := domain.PartialMetadata{}
	workAttempted := fields.WorkAttempted
	coverAttempted := fields.CoverAttempted
	if existing != nil {
		// Stored values win; the incoming pass only fills gaps.
		merged = existing.Metadata
		workAttempted = workAttempted || existing.WorkAttempted
		coverAttempted = coverAttempted || existing.CoverAttempted
	}
	merged.MergeFrom(fields.Metadata)

	subjectsJSON, err := json.Marshal(emptyAsList(merged.Subjects))
	if err != nil {
		return fmt.Errorf("marshal subjects: %w", err)
	}
	awardsJSON, err := json.Marshal(emptyAsList(merged.AwardSlugs))
	if err != nil {
		return fmt.Errorf("marshal award slugs: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO book_metadata_cache (
			cache_key, title, author, openlibrary_id, google_id, inventaire_uri,
			cover_url, subjects, award_slugs, description, page_count,
			first_publish_year, external_rating, work_attempted, cover_attempted, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		store.CacheKey(title, author),
		title,
		author,
		merged.OpenLibraryID,
		merged.GoogleID,
		merged.InventaireURI,
		merged.CoverURL,
		string(subjectsJSON),
		string(awardsJSON),
		merged.Description,
		merged.PageCount,
		merged.FirstPublishYear,
		merged.ExternalRating,
		boolToInt(workAttempted),
		boolToInt(coverAttempted),
		formatTime(s.now()),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// emptyAsList keeps nil slices stored as "[]" rather than "null".
func emptyAsList(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
