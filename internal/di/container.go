// Package di provides dependency injection configuration for the shelfgraph server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/shelfgraph/shelfgraph/internal/config"
	"github.com/shelfgraph/shelfgraph/internal/di/providers"
	"github.com/shelfgraph/shelfgraph/internal/logger"
	"github.com/shelfgraph/shelfgraph/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Persistence
	do.Provide(injector, providers.ProvideStore)

	// Catalog clients
	do.Provide(injector, providers.ProvideOpenLibraryClient)
	do.Provide(injector, providers.ProvideGoogleBooksClient)
	do.Provide(injector, providers.ProvideInventaireClient)

	// Services
	do.Provide(injector, providers.ProvideEnricher)
	do.Provide(injector, providers.ProvideRecommender)
	do.Provide(injector, providers.ProvideSessionManager)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*service.Enricher](injector)
	_ = do.MustInvoke[*service.Recommender](injector)
	_ = do.MustInvoke[*providers.SessionManagerHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	return nil
}
