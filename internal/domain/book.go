// Package domain contains the core entities shared across services: the
// enriched book record and the partial metadata accumulated from catalogs.
package domain

import "fmt"

// maxSubjects caps how many subjects a record keeps after enrichment.
const maxSubjects = 12

// BookRecord is one book from the ingested reading history, enriched with
// catalog metadata over its lifetime. Records are owned by a session's
// collection; enrichment writes are idempotent fill-once updates, so
// concurrent refresher writes stay benign.
type BookRecord struct {
	// ID is the composite key "title::author", also used as the graph
	// node id for books.
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`

	// Rating is the reader's rating 1-5; nil means unrated. The ingestion
	// sentinel 0 is mapped to nil at parse time.
	Rating *int `json:"rating,omitempty"`

	// Optional fields below follow fill-once semantics: the first catalog
	// to supply a value wins, later catalogs never overwrite it.
	Subjects         []string `json:"subjects,omitempty"`
	AwardSlugs       []string `json:"award_slugs,omitempty"`
	CoverURL         string   `json:"cover_url,omitempty"`
	OpenLibraryID    string   `json:"openlibrary_id,omitempty"`
	GoogleID         string   `json:"google_id,omitempty"`
	InventaireURI    string   `json:"inventaire_uri,omitempty"`
	Description      string   `json:"description,omitempty"`
	PageCount        int      `json:"page_count,omitempty"`
	FirstPublishYear int      `json:"first_publish_year,omitempty"`
	ExternalRating   float64  `json:"external_rating,omitempty"`
}

// RecordID builds the composite book key from title and author.
func RecordID(title, author string) string {
	return fmt.Sprintf("%s::%s", title, author)
}

// NewBookRecord creates a record from ingestion values. A rating of 0 is the
// "unrated" sentinel and maps to nil.
func NewBookRecord(title, author string, rating int) *BookRecord {
	r := &BookRecord{
		ID:     RecordID(title, author),
		Title:  title,
		Author: author,
	}
	if rating >= 1 && rating <= 5 {
		r.Rating = &rating
	}
	return r
}

// RatingOrDefault returns the rating, or the neutral 3 when unrated.
func (r *BookRecord) RatingOrDefault() int {
	if r.Rating == nil {
		return 3
	}
	return *r.Rating
}

// NeedsEnrichment reports whether the record is still missing the fields the
// background refresher is responsible for filling.
func (r *BookRecord) NeedsEnrichment() bool {
	return r.CoverURL == "" || len(r.Subjects) == 0
}

// Apply merges partial metadata onto the record with fill-if-absent
// semantics. Subjects are only set while empty and are capped at 12.
func (r *BookRecord) Apply(m *PartialMetadata) {
	if m == nil {
		return
	}
	if len(r.Subjects) == 0 && len(m.Subjects) > 0 {
		subjects := m.Subjects
		if len(subjects) > maxSubjects {
			subjects = subjects[:maxSubjects]
		}
		r.Subjects = append([]string(nil), subjects...)
	}
	if len(r.AwardSlugs) == 0 && len(m.AwardSlugs) > 0 {
		r.AwardSlugs = append([]string(nil), m.AwardSlugs...)
	}
	if r.CoverURL == "" {
		r.CoverURL = m.CoverURL
	}
	if r.OpenLibraryID == "" {
		r.OpenLibraryID = m.OpenLibraryID
	}
	if r.GoogleID == "" {
		r.GoogleID = m.GoogleID
	}
	if r.InventaireURI == "" {
		r.InventaireURI = m.InventaireURI
	}
	if r.Description == "" {
		r.Description = m.Description
	}
	if r.PageCount == 0 {
		r.PageCount = m.PageCount
	}
	if r.FirstPublishYear == 0 {
		r.FirstPublishYear = m.FirstPublishYear
	}
	if r.ExternalRating == 0 {
		r.ExternalRating = m.ExternalRating
	}
}
