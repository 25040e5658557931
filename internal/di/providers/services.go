package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfgraph/shelfgraph/internal/config"
	"github.com/shelfgraph/shelfgraph/internal/logger"
	"github.com/shelfgraph/shelfgraph/internal/metadata"
	"github.com/shelfgraph/shelfgraph/internal/metadata/googlebooks"
	"github.com/shelfgraph/shelfgraph/internal/metadata/inventaire"
	"github.com/shelfgraph/shelfgraph/internal/metadata/openlibrary"
	"github.com/shelfgraph/shelfgraph/internal/service"
	"github.com/shelfgraph/shelfgraph/internal/session"
)

// ProvideEnricher provides the metadata enrichment orchestrator.
// OpenLibrary supplies rich work data; Google Books and Inventaire
// back it up for covers, in that order.
func ProvideEnricher(i do.Injector) (*service.Enricher, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	openLibrary := do.MustInvoke[*openlibrary.Client](i)
	googleBooks := do.MustInvoke[*googlebooks.Client](i)
	inv := do.MustInvoke[*inventaire.Client](i)

	covers := []metadata.CoverSearcher{googleBooks, inv}
	enricher := service.NewEnricher(storeHandle.Store, openLibrary, covers, log.Logger)

	log.Info("Enricher initialized", "cover_fallbacks", len(covers))
	return enricher, nil
}

// ProvideRecommender provides the recommendation engine. Author
// searches prefer OpenLibrary; genre searches prefer Google Books; the
// enricher supplies the focus book's own genre list.
func ProvideRecommender(i do.Injector) (*service.Recommender, error) {
	log := do.MustInvoke[*logger.Logger](i)
	enricher := do.MustInvoke[*service.Enricher](i)
	openLibrary := do.MustInvoke[*openlibrary.Client](i)
	googleBooks := do.MustInvoke[*googlebooks.Client](i)
	inv := do.MustInvoke[*inventaire.Client](i)

	authors := []metadata.AuthorSearcher{openLibrary, googleBooks, inv}
	subjects := []metadata.SubjectSearcher{googleBooks, openLibrary, inv}

	return service.NewRecommender(enricher, authors, subjects, log.Logger), nil
}

// SessionManagerHandle wraps the session manager with shutdown capability.
type SessionManagerHandle struct {
	*session.Manager
}

// Shutdown implements do.Shutdownable.
func (h *SessionManagerHandle) Shutdown() error {
	return h.Manager.Shutdown()
}

// ProvideSessionManager provides the session manager.
func ProvideSessionManager(i do.Injector) (*SessionManagerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	enricher := do.MustInvoke[*service.Enricher](i)

	manager := session.NewManager(enricher, log.Logger,
		session.WithSyncEnrich(cfg.Ingest.SyncEnrich),
	)

	log.Info("Session manager initialized", "sync_enrich", cfg.Ingest.SyncEnrich)
	return &SessionManagerHandle{Manager: manager}, nil
}
