package domain

// PartialMetadata is the accumulating result of one enrichment pass. Fields
// are filled by successive catalogs under fill-if-absent rules: an earlier,
// richer catalog's value is never overwritten by a later one.
type PartialMetadata struct {
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

// IsEmpty reports whether no catalog contributed anything.
func (m *PartialMetadata) IsEmpty() bool {
	return m == nil || (len(m.Subjects) == 0 &&
		len(m.AwardSlugs) == 0 &&
		m.CoverURL == "" &&
		m.OpenLibraryID == "" &&
		m.GoogleID == "" &&
		m.InventaireURI == "" &&
		m.Description == "" &&
		m.PageCount == 0 &&
		m.FirstPublishYear == 0 &&
		m.ExternalRating == 0)
}

// HasIdentifier reports whether any catalog discovered an external id for
// the book. Cache entries without one count as negative lookups.
func (m *PartialMetadata) HasIdentifier() bool {
	return m != nil && (m.OpenLibraryID != "" || m.GoogleID != "" || m.InventaireURI != "")
}

// MergeFrom fills any still-empty field of m from other. This is the one
// shared fill-if-absent helper; every merge site uses it so the policy
// cannot drift between call sites.
func (m *PartialMetadata) MergeFrom(other *PartialMetadata) {
	if other == nil {
		return
	}
	if len(m.Subjects) == 0 && len(other.Subjects) > 0 {
		m.Subjects = append([]string(nil), other.Subjects...)
	}
	if len(m.AwardSlugs) == 0 && len(other.AwardSlugs) > 0 {
		m.AwardSlugs = append([]string(nil), other.AwardSlugs...)
	}
	if m.CoverURL == "" {
		m.CoverURL = other.CoverURL
	}
	if m.OpenLibraryID == "" {
		m.OpenLibraryID = other.OpenLibraryID
	}
	if m.GoogleID == "" {
		m.GoogleID = other.GoogleID
	}
	if m.InventaireURI == "" {
		m.InventaireURI = other.InventaireURI
	}
	if m.Description == "" {
		m.Description = other.Description
	}
	if m.PageCount == 0 {
		m.PageCount = other.PageCount
	}
	if m.FirstPublishYear == 0 {
		m.FirstPublishYear = other.FirstPublishYear
	}
	if m.ExternalRating == 0 {
		m.ExternalRating = other.ExternalRating
	}
}

// CandidateBook is an unread book surfaced by a catalog list search
// (by author or by subject). Candidates become ephemeral graph nodes during
// a recommendation request.
type CandidateBook struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	CoverURL      string `json:"cover_url,omitempty"`
	OpenLibraryID string `json:"openlibrary_id,omitempty"`
	GoogleID      string `json:"google_id,omitempty"`
	InventaireURI string `json:"inventaire_uri,omitempty"`
}
