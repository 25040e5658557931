// Package session owns the per-upload state: the record collection,
// the canonical knowledge graph, and the upload phase. Sessions are
// created by the manager and looked up by nanoid.
package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/shelfgraph/shelfgraph/internal/domain"
	domainerrors "github.com/shelfgraph/shelfgraph/internal/errors"
	"github.com/shelfgraph/shelfgraph/internal/graph"
	"github.com/shelfgraph/shelfgraph/internal/id"
	"github.com/shelfgraph/shelfgraph/internal/ingest"
	"github.com/shelfgraph/shelfgraph/internal/service"
)

// Phase tracks where an upload is in its lifecycle.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseParsing  Phase = "parsing"
	PhaseFetching Phase = "fetching"
	PhaseBuilding Phase = "building"
	PhaseDone     Phase = "done"
)

// DefaultSyncEnrich is how many records are enriched before the upload
// response returns; the refresher handles the rest.
const DefaultSyncEnrich = 10

// Session is one uploaded reading history. The record slice and graph
// pointer are stable for the session's lifetime; the refresher mutates
// records in place, so readers always see the same collection.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.RWMutex
	phase     Phase
	records   []*domain.BookRecord
	graph     *graph.Graph
	stats     ingest.Stats
	refresher *service.Refresher
}

// Phase returns the current upload phase.
func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

// Records returns the session's record collection. Callers must not
// reslice or reorder it.
func (s *Session) Records() []*domain.BookRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Stats returns the ingestion summary.
func (s *Session) Stats() ingest.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Graph returns the canonical knowledge graph. Callers needing to
// mutate must Clone.
func (s *Session) Graph() *graph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

// rebuild refreshes the canonical graph from the current record state.
func (s *Session) rebuild() {
	s.mu.Lock()
	s.graph = graph.Build(s.records)
	s.mu.Unlock()
}

// Enricher is the slice of the enrichment service the session layer
// needs. *service.Enricher satisfies it.
type Enricher interface {
	Enrich(ctx context.Context, rec *domain.BookRecord) error
	EnrichAll(ctx context.Context, records []*domain.BookRecord) error
}

// Manager creates and tracks sessions.
type Manager struct {
	enricher   Enricher
	logger     *slog.Logger
	syncEnrich int

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option configures the manager.
type Option func(*Manager)

// WithSyncEnrich overrides how many records are enriched synchronously
// at upload time.
func WithSyncEnrich(n int) Option {
	return func(m *Manager) { m.syncEnrich = n }
}

// NewManager creates an empty session manager.
func NewManager(enricher Enricher, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		enricher:   enricher,
		logger:     logger,
		syncEnrich: DefaultSyncEnrich,
		sessions:   make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateFromCSV ingests a Goodreads export and returns a ready session:
// records parsed, the first few enriched, the canonical graph built,
// and a background refresher sweeping the remainder. The refresher
// rebuilds the graph when its sweep completes.
func (m *Manager) CreateFromCSV(ctx context.Context, r io.Reader, opts ingest.Options) (*Session, error) {
	sessionID, err := id.Generate("ses")
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generating session id")
	}

	s := &Session{
		ID:        sessionID,
		CreatedAt: time.Now(),
		phase:     PhaseIdle,
	}

	s.setPhase(PhaseParsing)
	result, err := ingest.Read(r, opts)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.records = result.Records
	s.stats = result.Stats
	s.mu.Unlock()

	s.setPhase(PhaseFetching)
	prefix := s.records
	if len(prefix) > m.syncEnrich {
		prefix = prefix[:m.syncEnrich]
	}
	if err := m.enricher.EnrichAll(ctx, prefix); err != nil {
		return nil, err
	}

	s.setPhase(PhaseBuilding)
	s.rebuild()

	// The response returns while the refresher finishes the sweep; the
	// phase reads "fetching" until it rebuilds the graph and settles.
	s.setPhase(PhaseFetching)
	s.refresher = service.NewRefresher(m.enricher, m.logger)
	s.refresher.Start(context.Background(), s.records)
	go func() {
		<-s.refresher.Done()
		s.setPhase(PhaseBuilding)
		s.rebuild()
		s.setPhase(PhaseDone)
	}()

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("session created",
		"session", s.ID,
		"books", len(s.records),
		"sync_enriched", len(prefix),
	)
	return s, nil
}

// Get looks up a session by id.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, domainerrors.NotFoundf("session %q not found", sessionID)
	}
	return s, nil
}

// Shutdown stops every session's refresher and waits for them.
func (m *Manager) Shutdown() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.refresher != nil {
			s.refresher.Stop()
		}
	}
	return nil
}
