package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shelfgraph/shelfgraph/internal/domain"
	domainerrors "github.com/shelfgraph/shelfgraph/internal/errors"
	"github.com/shelfgraph/shelfgraph/internal/graph"
	"github.com/shelfgraph/shelfgraph/internal/metadata"
	"github.com/shelfgraph/shelfgraph/internal/normalize"
)

// Edge weights and limits for recommendation channels.
const (
	recFocusWeight   = 0.6
	recAuthorWeight  = 0.4
	recSubjectWeight = 0.5
	recGenreWeight   = 0.8

	authorChannelLimit = 8
	genreCandidates    = 6
	topGenreCount      = 3
)

// Distinct lookup failures surfaced by Recommend.
var (
	ErrFocusNotFound    = domainerrors.NotFound("focus book not in graph")
	ErrAuthorUnresolved = domainerrors.NotFound("focus book has no resolvable author")
)

// Recommender suggests unread books around a focus book. Suggestions
// arrive through two independent channels: other works by the focus
// author, and books sharing the reader's highest-affinity genres.
// The focus book's own genre list comes from the enrichment chain, so
// it is available even before the background sweep reaches the book.
type Recommender struct {
	enricher recordEnricher
	authors  []metadata.AuthorSearcher
	subjects []metadata.SubjectSearcher
	logger   *slog.Logger
}

// NewRecommender wires the recommendation catalog chains. Both slices
// are walked in fallback order.
func NewRecommender(enricher recordEnricher, authors []metadata.AuthorSearcher, subjects []metadata.SubjectSearcher, logger *slog.Logger) *Recommender {
	return &Recommender{
		enricher: enricher,
		authors:  authors,
		subjects: subjects,
		logger:   logger,
	}
}

// Recommend returns a working copy of g annotated with ephemeral
// suggestion nodes around the focus book. The input graph is never
// mutated. A channel whose catalogs all fail contributes nothing;
// partial results are returned, not errors.
func (r *Recommender) Recommend(ctx context.Context, g *graph.Graph, focusBookID string) (*graph.Graph, error) {
	focus := g.Node(focusBookID)
	if focus == nil || focus.Kind != graph.KindBook {
		return nil, ErrFocusNotFound
	}
	author, _ := focus.Attrs["author"].(string)
	if author == "" {
		return nil, ErrAuthorUnresolved
	}

	work := g.Clone()
	read := readSet(work)
	added := make(map[string]bool)

	r.authorChannel(ctx, work, focus, author, read, added)
	r.genreChannel(ctx, work, focus, author, read, added)
	return work, nil
}

// readSet collects the normalized titles of every non-ephemeral book
// node. Suggestions matching a read title are dropped.
func readSet(g *graph.Graph) map[string]bool {
	read := make(map[string]bool)
	for _, n := range g.NodesOfKind(graph.KindBook) {
		if n.Ephemeral {
			continue
		}
		read[normalize.TitleKey(n.Label)] = true
	}
	return read
}

func (r *Recommender) authorChannel(ctx context.Context, g *graph.Graph, focus *graph.Node, author string, read, added map[string]bool) {
	candidates := metadata.AuthorChain(ctx, r.authors, author, authorChannelLimit, r.logger)
	authorID := graph.AuthorNodeID(author)

	count := 0
	for _, c := range candidates {
		if count >= authorChannelLimit {
			break
		}
		key := normalize.TitleKey(c.Title)
		if key == "" || read[key] || added[key] {
			continue
		}
		added[key] = true
		count++

		id := suggestionID(c.Title, c.Author)
		g.AddNode(graph.Node{
			ID:        id,
			Kind:      graph.KindBook,
			Label:     normalize.Title(c.Title),
			Ephemeral: true,
			Attrs:     candidateAttrs(c, "same author"),
		})
		g.AddEdge(id, focus.ID, recFocusWeight, "same author")
		if g.HasNode(authorID) {
			g.AddEdge(id, authorID, recAuthorWeight, "wrote")
		}
	}
}

func (r *Recommender) genreChannel(ctx context.Context, g *graph.Graph, focus *graph.Node, author string, read, added map[string]bool) {
	for _, genre := range r.topGenres(ctx, g, focus, author) {
		subjectID := graph.SubjectNodeID(genre)
		if !g.HasNode(subjectID) {
			// A genre known from the catalogs but absent from the read
			// history still anchors its suggestions in the working copy.
			g.AddNode(graph.Node{ID: subjectID, Kind: graph.KindSubject, Label: genre, Ephemeral: true})
			g.AddEdge(focus.ID, subjectID, recGenreWeight, "about")
		}
		candidates := metadata.SubjectChain(ctx, r.subjects, genre, genreCandidates, r.logger)

		reason := fmt.Sprintf("shares genre: %s", genre)
		for _, c := range candidates {
			key := normalize.TitleKey(c.Title)
			if key == "" || read[key] || added[key] {
				continue
			}
			added[key] = true

			id := suggestionID(c.Title, c.Author)
			g.AddNode(graph.Node{
				ID:        id,
				Kind:      graph.KindBook,
				Label:     normalize.Title(c.Title),
				Ephemeral: true,
				Attrs:     candidateAttrs(c, reason),
			})
			g.AddEdge(id, subjectID, recSubjectWeight, reason)
		}
	}
}

// topGenres picks the focus book's genres with the highest reader
// affinity. The genre list is fetched through the enrichment chain, so
// a cached book costs no network call and a not-yet-enriched focus
// book still yields genres; the graph's subject nodes only serve as
// the affinity signal. Ties break alphabetically.
func (r *Recommender) topGenres(ctx context.Context, g *graph.Graph, focus *graph.Node, author string) []string {
	genres := r.fetchFocusGenres(ctx, focus, author)
	if len(genres) == 0 {
		for _, nid := range g.Neighbors(focus.ID) {
			if n := g.Node(nid); n.Kind == graph.KindSubject {
				genres = append(genres, n.Label)
			}
		}
	}

	type scored struct {
		name  string
		score int
	}
	seen := make(map[string]bool)
	var ranked []scored
	for _, genre := range genres {
		key := strings.ToLower(genre)
		if seen[key] {
			continue
		}
		seen[key] = true
		ranked = append(ranked, scored{name: genre, score: subjectAffinity(g, graph.SubjectNodeID(genre))})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > topGenreCount {
		ranked = ranked[:topGenreCount]
	}
	names := make([]string, len(ranked))
	for i, s := range ranked {
		names[i] = s.name
	}
	return names
}

// fetchFocusGenres runs the focus book through the enrichment chain and
// returns its subjects. Failures degrade to the graph's own subjects.
func (r *Recommender) fetchFocusGenres(ctx context.Context, focus *graph.Node, author string) []string {
	rating := 0
	if v, ok := focus.Attrs["rating"].(int); ok {
		rating = v
	}
	rec := domain.NewBookRecord(focus.Label, author, rating)
	if err := r.enricher.Enrich(ctx, rec); err != nil {
		r.logger.Warn("focus genre lookup failed", "book", focus.ID, "error", err)
		return nil
	}
	return rec.Subjects
}

// subjectAffinity is the summed rating of the read books attached to a
// subject node, unrated reads counting as the neutral 3. A subject the
// reader has never met scores zero.
func subjectAffinity(g *graph.Graph, subjectID string) int {
	if !g.HasNode(subjectID) {
		return 0
	}
	score := 0
	for _, bid := range g.Neighbors(subjectID) {
		b := g.Node(bid)
		if b.Kind != graph.KindBook || b.Ephemeral {
			continue
		}
		if rating, ok := b.Attrs["rating"].(int); ok {
			score += rating
		} else {
			score += 3
		}
	}
	return score
}

func suggestionID(title, author string) string {
	return graph.NodeID(graph.KindBook, fmt.Sprintf("%s::%s", strings.TrimSpace(title), strings.TrimSpace(author)))
}

func candidateAttrs(c domain.CandidateBook, reason string) map[string]any {
	attrs := map[string]any{"reason": reason}
	if c.Author != "" {
		attrs["author"] = c.Author
	}
	if c.CoverURL != "" {
		attrs["cover_url"] = c.CoverURL
	}
	return attrs
}
