package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfgraph/shelfgraph/internal/config"
	"github.com/shelfgraph/shelfgraph/internal/logger"
	"github.com/shelfgraph/shelfgraph/internal/metadata/googlebooks"
	"github.com/shelfgraph/shelfgraph/internal/metadata/inventaire"
	"github.com/shelfgraph/shelfgraph/internal/metadata/openlibrary"
)

// ProvideOpenLibraryClient provides the OpenLibrary catalog client.
func ProvideOpenLibraryClient(i do.Injector) (*openlibrary.Client, error) {
	log := do.MustInvoke[*logger.Logger](i)

	client := openlibrary.NewClient(log.Logger)
	log.Info("OpenLibrary client initialized")

	return client, nil
}

// ProvideGoogleBooksClient provides the Google Books catalog client.
func ProvideGoogleBooksClient(i do.Injector) (*googlebooks.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := googlebooks.NewClient(log.Logger, cfg.Providers.GoogleBooksAPIKey)
	log.Info("Google Books client initialized",
		"keyed", cfg.Providers.GoogleBooksAPIKey != "",
	)

	return client, nil
}

// ProvideInventaireClient provides the Inventaire catalog client.
func ProvideInventaireClient(i do.Injector) (*inventaire.Client, error) {
	log := do.MustInvoke[*logger.Logger](i)

	client := inventaire.NewClient(log.Logger)
	log.Info("Inventaire client initialized")

	return client, nil
}
