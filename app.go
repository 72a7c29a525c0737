package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/khalef-khalil/nkcommerce/internal/apiclient"
	"github.com/khalef-khalil/nkcommerce/internal/config"
	"github.com/khalef-khalil/nkcommerce/internal/credentials"
	"github.com/khalef-khalil/nkcommerce/internal/guard"
	"github.com/khalef-khalil/nkcommerce/internal/handlers"
	"github.com/khalef-khalil/nkcommerce/internal/middleware"
	"github.com/khalef-khalil/nkcommerce/internal/repositories"
	"github.com/khalef-khalil/nkcommerce/internal/session"
)

// newApp builds the gateway. events may be nil. The returned cleanup
// releases the credential vault, if any.
func newApp(cfg config.Config, events handlers.Publisher) (*fiber.App, func(), error) {
	provider, cleanup, err := storeProvider(cfg)
	if err != nil {
		return nil, nil, err
	}

	var opts []apiclient.Option
	if cfg.TracingEnabled {
		opts = append(opts, apiclient.WithTracing())
	}
	api := apiclient.New(cfg.BackendURL, cfg.BackendTimeout, opts...)
	gw := handlers.NewGateway(api, session.Policy{UsernameFallback: cfg.AdminUsernameFallback}, events)
	rules := guard.DefaultRules()

	app := fiber.New(fiber.Config{AppName: "nkcommerce"})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New())

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":      "healthy",
			"time":        time.Now().Format(time.RFC3339),
			"credentials": cfg.CredentialStore,
			"events":      events != nil,
		})
	})

	app.Use(middleware.Credentials(provider, middleware.CookieOptions{Secure: cfg.CookieSecure}))
	app.Use(middleware.RouteGuard(rules))

	// --- Storefront ---
	handlers.NewCatalogHandler(gw).RegisterRoutes(app)
	handlers.NewAuthHandler(gw, rules).RegisterRoutes(app)
	handlers.NewCartHandler(gw).RegisterRoutes(app)
	handlers.NewOrderHandler(gw, rules).RegisterRoutes(app)

	// --- Back office ---
	handlers.NewAdminAuthHandler(gw, rules).RegisterRoutes(app)
	handlers.NewBackofficeHandler(gw, rules).RegisterRoutes(app)

	return app, cleanup, nil
}

// storeProvider selects where credentials live.
func storeProvider(cfg config.Config) (middleware.StoreProvider, func(), error) {
	if cfg.CredentialStore != config.StoreVault {
		return middleware.CookieStores(cfg.CookieSecret), func() {}, nil
	}

	db, err := repositories.OpenDatabase(cfg.VaultDriver, cfg.VaultDSN)
	if err != nil {
		return nil, nil, err
	}
	repo := repositories.NewGORMCredentialRepository(db)
	if err := repo.Migrate(); err != nil {
		return nil, nil, err
	}
	vault := credentials.NewVault(repo, cfg.CookieSecret)
	if purged, err := vault.Purge(); err != nil {
		log.Printf("Error purging expired credentials: %v", err)
	} else if purged > 0 {
		log.Printf("Purged %d expired credentials", purged)
	}

	cleanup := func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Printf("Error getting vault connection: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing vault connection: %v", err)
		}
	}
	log.Printf("Credential vault ready (%s)", cfg.VaultDriver)
	return middleware.VaultStores(vault), cleanup, nil
}
