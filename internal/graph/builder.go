package graph

import (
	"fmt"
	"strings"

	"github.com/shelfgraph/shelfgraph/internal/domain"
)

// Edge weights by relation. Author edges scale with the reader's
// rating; the rest are fixed.
const (
	subjectWeight = 0.8
	awardWeight   = 0.7
	eraWeight     = 0.5
)

// authorWeight maps a rating to the book-author edge weight. A rating
// of 3 (or no rating) is neutral at 1.0; each star above adds 0.1,
// capped at 1.2. There is no lower cap, so a 1-star read weakens the
// tie to 0.8.
func authorWeight(rating int) float64 {
	w := 1.0 + float64(rating-3)*0.1
	if w > 1.2 {
		w = 1.2
	}
	return w
}

// eraFor returns the decade label for a publication year, e.g. "1960s".
// Years before 1000 are treated as unknown.
func eraFor(year int) string {
	if year < 1000 {
		return ""
	}
	return fmt.Sprintf("%ds", (year/10)*10)
}

func entityKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AuthorNodeID returns the canonical node ID for an author name.
func AuthorNodeID(author string) string {
	return NodeID(KindAuthor, entityKey(author))
}

// SubjectNodeID returns the canonical node ID for a subject.
func SubjectNodeID(subject string) string {
	return NodeID(KindSubject, entityKey(subject))
}

// Build constructs the knowledge graph for a set of records. The
// result depends only on the record contents, not their order.
func Build(records []*domain.BookRecord) *Graph {
	g := New()
	for _, rec := range records {
		addRecord(g, rec)
	}
	return g
}

func addRecord(g *Graph, rec *domain.BookRecord) {
	bookID := NodeID(KindBook, rec.ID)
	attrs := map[string]any{"author": rec.Author}
	if rec.Rating != nil {
		attrs["rating"] = *rec.Rating
	}
	if rec.CoverURL != "" {
		attrs["cover_url"] = rec.CoverURL
	}
	g.AddNode(Node{ID: bookID, Kind: KindBook, Label: rec.Title, Attrs: attrs})

	if rec.Author != "" {
		authorID := AuthorNodeID(rec.Author)
		if !g.HasNode(authorID) {
			g.AddNode(Node{ID: authorID, Kind: KindAuthor, Label: rec.Author})
		}
		g.AddEdge(bookID, authorID, authorWeight(rec.RatingOrDefault()), "wrote")
	}

	for _, subject := range rec.Subjects {
		subjectID := SubjectNodeID(subject)
		if !g.HasNode(subjectID) {
			g.AddNode(Node{ID: subjectID, Kind: KindSubject, Label: subject})
		}
		g.AddEdge(bookID, subjectID, subjectWeight, "about")
	}

	for _, slug := range rec.AwardSlugs {
		awardID := NodeID(KindAward, slug)
		if !g.HasNode(awardID) {
			label := strings.ReplaceAll(slug, "_", " ")
			g.AddNode(Node{ID: awardID, Kind: KindAward, Label: label})
		}
		g.AddEdge(bookID, awardID, awardWeight, "won")
	}

	if era := eraFor(rec.FirstPublishYear); era != "" {
		eraID := NodeID(KindEra, era)
		if !g.HasNode(eraID) {
			g.AddNode(Node{ID: eraID, Kind: KindEra, Label: era})
		}
		g.AddEdge(bookID, eraID, eraWeight, "published in")
	}
}
