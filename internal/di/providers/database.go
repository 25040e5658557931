package providers

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/shelfgraph/shelfgraph/internal/config"
	"github.com/shelfgraph/shelfgraph/internal/logger"
	"github.com/shelfgraph/shelfgraph/internal/store/sqlite"
)

// StoreHandle wraps the metadata cache store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the persistent metadata cache.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Cache.DataDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	store, err := sqlite.Open(cfg.Cache.Path, log.Logger, sqlite.WithTTL(cfg.Cache.TTL))
	if err != nil {
		return nil, fmt.Errorf("opening metadata cache: %w", err)
	}

	log.Info("Metadata cache opened",
		"path", cfg.Cache.Path,
		"ttl", cfg.Cache.TTL,
	)

	return &StoreHandle{Store: store}, nil
}
