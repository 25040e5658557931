package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shelfgraph/shelfgraph/internal/domain"
)

type recordEnricher interface {
	Enrich(ctx context.Context, rec *domain.BookRecord) error
}

// Refresher completes enrichment for the records the synchronous
// ingestion pass skipped. It runs one sweep in the background, writing
// fill-once updates onto the records in place so foreground readers
// always see the same collection.
type Refresher struct {
	enricher recordEnricher
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewRefresher creates a refresher around the given enricher.
func NewRefresher(enricher recordEnricher, logger *slog.Logger) *Refresher {
	return &Refresher{enricher: enricher, logger: logger}
}

// Start launches the background sweep over records. Calling Start on a
// running refresher is a no-op.
func (r *Refresher) Start(ctx context.Context, records []*domain.BookRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true

	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})

	go r.run(ctx, records)
}

func (r *Refresher) run(ctx context.Context, records []*domain.BookRecord) {
	defer close(r.done)

	refreshed := 0
	for _, rec := range records {
		if ctx.Err() != nil {
			r.logger.Debug("background refresh cancelled", "refreshed", refreshed)
			return
		}
		if !rec.NeedsEnrichment() {
			continue
		}
		if err := r.enricher.Enrich(ctx, rec); err != nil {
			// Only cancellation reaches here; catalog trouble degrades
			// inside the enricher.
			return
		}
		refreshed++
	}
	r.logger.Info("background refresh complete", "refreshed", refreshed)
}

// Stop cancels the sweep and waits for the worker to exit. Safe to
// call on a refresher that never started.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Done returns a channel closed when the sweep finishes or is
// cancelled, or nil if the refresher never started.
func (r *Refresher) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}
