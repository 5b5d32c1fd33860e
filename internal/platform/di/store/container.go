// Package store is the storefront DI container.
package store

import (
	"context"
	"errors"
	"log"
	"strings"

	storequery "botparts/internal/application/query/store"
	usecase "botparts/internal/application/usecase"

	outfs "botparts/internal/adapters/out/firestore"
	gcso "botparts/internal/adapters/out/gcs"
	"botparts/internal/adapters/out/mail"
	"botparts/internal/adapters/out/postgres"

	"botparts/internal/infra/database"

	shared "botparts/internal/platform/di/shared"
)

// Container wires the storefront. Pure DI: build deps only, no routing
// branching.
type Container struct {
	Infra *shared.Infra

	// Cart sessions (one synchronizer per signed-in shopper)
	Sessions *usecase.CartSessions

	// Usecases
	CheckoutUC *usecase.CheckoutUsecase
	ProfileUC  *usecase.ProfileUsecase

	// Queries
	CatalogQ *storequery.CatalogQuery
	SearchQ  *storequery.SearchQuery

	// Optional Postgres order archive (nil when not configured)
	archiveDB *database.DB
}

// NewContainer builds the storefront container on top of shared infra.
// baseCtx outlives individual requests; cart watches are bound to it.
func NewContainer(ctx context.Context, baseCtx context.Context, infra *shared.Infra) (*Container, error) {
	if infra == nil {
		var err error
		infra, err = shared.NewInfra(ctx)
		if err != nil {
			return nil, err
		}
	}
	if infra.Config == nil {
		return nil, errors.New("di.store: shared infra config is nil")
	}
	fsClient := infra.Firestore
	if fsClient == nil {
		return nil, errors.New("di.store: infra.Firestore is nil")
	}

	c := &Container{Infra: infra}

	// Firestore repositories
	productRepo := outfs.NewProductRepositoryFS(fsClient)
	categoryRepo := outfs.NewCategoryRepositoryFS(fsClient)
	offerRepo := outfs.NewOfferRepositoryFS(fsClient)
	orderRepo := outfs.NewOrderRepositoryFS(fsClient)
	userRepo := outfs.NewUserRepositoryFS(fsClient)
	cartStore := outfs.NewCartStoreFS(fsClient)

	// Queries
	c.CatalogQ = storequery.NewCatalogQuery(productRepo, categoryRepo, offerRepo)
	c.SearchQ = storequery.NewSearchQuery(productRepo, categoryRepo)

	// Cart sessions: the watch goroutines live as long as the process,
	// so they bind to baseCtx, not the boot ctx.
	c.Sessions = usecase.NewCartSessions(baseCtx, cartStore, productRepo)

	// Checkout
	c.CheckoutUC = usecase.NewCheckoutUsecase(orderRepo)
	if key := strings.TrimSpace(infra.SendGridAPIKey); key != "" {
		c.CheckoutUC = c.CheckoutUC.WithMail(mail.NewSendGridClient(key), infra.MailFrom)
	}
	if db := openArchiveDB(infra); db != nil {
		c.archiveDB = db
		c.CheckoutUC = c.CheckoutUC.WithArchive(postgres.NewOrderArchivePG(db.Client))
	}

	// Profile
	c.ProfileUC = usecase.NewProfileUsecase(userRepo)
	if infra.GCS != nil {
		c.ProfileUC = c.ProfileUC.WithPhotoStorage(
			gcso.NewProfilePhotoRepositoryGCS(infra.GCS, infra.ProfilePhotoBucket),
		)
	}

	return c, nil
}

// Close tears down everything the container owns. Shared infra is closed
// by the caller that created it.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Sessions != nil {
		_ = c.Sessions.Close()
	}
	if c.archiveDB != nil {
		_ = c.archiveDB.Close()
	}
	return nil
}

// openArchiveDB connects the optional Postgres order archive.
// Empty ARCHIVE_DB_HOST disables it.
func openArchiveDB(infra *shared.Infra) *database.DB {
	cfg := infra.Config
	if strings.TrimSpace(cfg.ArchiveDBHost) == "" {
		log.Printf("[di.store] order archive not configured (ARCHIVE_DB_HOST empty)")
		return nil
	}
	db, err := database.NewConnection(
		cfg.ArchiveDBHost,
		cfg.ArchiveDBPort,
		cfg.ArchiveDBUser,
		cfg.ArchiveDBPassword,
		cfg.ArchiveDBName,
	)
	if err != nil {
		log.Printf("[di.store] WARN: order archive connection failed: %v (archiving disabled)", err)
		return nil
	}
	log.Printf("[di.store] order archive connected host=%s db=%s", cfg.ArchiveDBHost, cfg.ArchiveDBName)
	return db
}
