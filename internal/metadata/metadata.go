// Package metadata defines the capability contracts the external book
// catalogs implement, and ordered fallback chains over them. Each catalog
// client implements the subset of capabilities its API supports; the
// enrichment and recommendation services consume the interfaces only.
package metadata

import (
	"context"
	"log/slog"

	"github.com/shelfgraph/shelfgraph/internal/domain"
)

// WorkSearcher looks up rich work metadata (subjects, cover, description,
// awards, external id) for a single book.
type WorkSearcher interface {
	// SearchWork returns nil, nil when the catalog has no match.
	SearchWork(ctx context.Context, title, author string) (*domain.PartialMetadata, error)
	Name() string
}

// CoverSearcher looks up a cover image URL for a single book.
type CoverSearcher interface {
	// SearchCover returns "", nil when the catalog has no cover.
	SearchCover(ctx context.Context, title, author string) (string, error)
	Name() string
}

// SubjectSearcher lists books tagged with a subject or genre.
type SubjectSearcher interface {
	BooksBySubject(ctx context.Context, subject string, limit int) ([]domain.CandidateBook, error)
	Name() string
}

// AuthorSearcher lists books written by an author.
type AuthorSearcher interface {
	BooksByAuthor(ctx context.Context, author string, limit int) ([]domain.CandidateBook, error)
	Name() string
}

// AuthorChain walks an ordered list of author searchers and returns the
// first non-empty result. Failures are logged and treated as empty; an
// unreachable catalog never aborts the chain.
func AuthorChain(ctx context.Context, chain []AuthorSearcher, author string, limit int, logger *slog.Logger) []domain.CandidateBook {
	for _, s := range chain {
		books, err := s.BooksByAuthor(ctx, author, limit)
		if err != nil {
			logger.Warn("author search failed, trying next catalog",
				"catalog", s.Name(),
				"author", author,
				"error", err,
			)
			continue
		}
		if len(books) > 0 {
			return books
		}
	}
	return nil
}

// SubjectChain walks an ordered list of subject searchers and returns the
// first non-empty result, with the same degrade-to-empty error policy as
// AuthorChain.
func SubjectChain(ctx context.Context, chain []SubjectSearcher, subject string, limit int, logger *slog.Logger) []domain.CandidateBook {
	for _, s := range chain {
		books, err := s.BooksBySubject(ctx, subject, limit)
		if err != nil {
			logger.Warn("subject search failed, trying next catalog",
				"catalog", s.Name(),
				"subject", subject,
				"error", err,
			)
			continue
		}
		if len(books) > 0 {
			return books
		}
	}
	return nil
}
