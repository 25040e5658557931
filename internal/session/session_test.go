package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shelfgraph/shelfgraph/internal/domain"
	domainerrors "github.com/shelfgraph/shelfgraph/internal/errors"
	"github.com/shelfgraph/shelfgraph/internal/graph"
	"github.com/shelfgraph/shelfgraph/internal/ingest"
)

const exportCSV = `Title,Author,My Rating,Date Read,Number of Pages,Original Publication Year
Dune,Frank Herbert,5,2025/01/15,412,1965
Hyperion,Dan Simmons,4,2025/02/10,482,1989
Solaris,Stanislaw Lem,3,2025/03/01,204,1961
`

// stubEnricher tags every record it sees with a subject so the tests
// can tell sync from background enrichment apart.
type stubEnricher struct {
	mu    sync.Mutex
	seen  []string
	delay time.Duration
}

func (s *stubEnricher) Enrich(ctx context.Context, rec *domain.BookRecord) error {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, rec.ID)
	rec.Subjects = []string{"Enriched"}
	rec.CoverURL = "https://covers.example/x.jpg"
	return nil
}

func (s *stubEnricher) EnrichAll(ctx context.Context, records []*domain.BookRecord) error {
	for _, rec := range records {
		if err := s.Enrich(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *stubEnricher) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func testLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func waitPhase(t *testing.T, s *Session, want Phase) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s.Phase() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("phase = %q, want %q", s.Phase(), want)
}

func TestCreateFromCSV(t *testing.T) {
	enricher := &stubEnricher{}
	m := NewManager(enricher, testLogger(), WithSyncEnrich(2))

	s, err := m.CreateFromCSV(context.Background(), strings.NewReader(exportCSV), ingest.Options{})
	if err != nil {
		t.Fatalf("CreateFromCSV: %v", err)
	}
	t.Cleanup(func() { m.Shutdown() })

	if !strings.HasPrefix(s.ID, "ses-") {
		t.Errorf("session id = %q", s.ID)
	}
	if len(s.Records()) != 3 {
		t.Fatalf("records = %d", len(s.Records()))
	}

	// Two records enriched before the call returned.
	if got := enricher.count(); got < 2 {
		t.Errorf("sync enriched = %d, want >= 2", got)
	}

	g := s.Graph()
	if g == nil || !g.HasNode(graph.NodeID(graph.KindBook, "Dune::Frank Herbert")) {
		t.Fatal("canonical graph missing ingested book")
	}

	// The refresher completes the third record and settles the phase.
	waitPhase(t, s, PhaseDone)
	if got := enricher.count(); got != 3 {
		t.Errorf("total enriched = %d, want 3", got)
	}
	// The rebuilt graph now carries the refreshed subject.
	if !s.Graph().HasNode(graph.SubjectNodeID("Enriched")) {
		t.Error("graph not rebuilt after background sweep")
	}

	if s.Stats().TotalBooks != 3 {
		t.Errorf("stats = %+v", s.Stats())
	}
}

func TestManagerGet(t *testing.T) {
	m := NewManager(&stubEnricher{}, testLogger())
	s, err := m.CreateFromCSV(context.Background(), strings.NewReader(exportCSV), ingest.Options{})
	if err != nil {
		t.Fatalf("CreateFromCSV: %v", err)
	}
	t.Cleanup(func() { m.Shutdown() })

	got, err := m.Get(s.ID)
	if err != nil || got != s {
		t.Errorf("Get(%q) = %v, %v", s.ID, got, err)
	}

	_, err = m.Get("ses-missing")
	var derr *domainerrors.Error
	if !domainerrors.As(err, &derr) || derr.Code != domainerrors.CodeNotFound {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestCreateFromCSV_BadInput(t *testing.T) {
	m := NewManager(&stubEnricher{}, testLogger())
	_, err := m.CreateFromCSV(context.Background(), strings.NewReader("Title,Author\nDune,Frank Herbert\n"), ingest.Options{})
	if err == nil {
		t.Fatal("expected validation error for missing Date Read column")
	}
}

func TestShutdownStopsRefresher(t *testing.T) {
	enricher := &stubEnricher{delay: 50 * time.Millisecond}
	m := NewManager(enricher, testLogger(), WithSyncEnrich(0))

	s, err := m.CreateFromCSV(context.Background(), strings.NewReader(exportCSV), ingest.Options{})
	if err != nil {
		t.Fatalf("CreateFromCSV: %v", err)
	}

	if err := m.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	select {
	case <-s.refresher.Done():
	case <-time.After(time.Second):
		t.Fatal("refresher still running after shutdown")
	}
}
