package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/carhire/internal/devapi/http"
	"github.com/aussiebroadwan/carhire/internal/devapi/service"
	"github.com/aussiebroadwan/carhire/internal/devapi/store"
	"github.com/aussiebroadwan/carhire/internal/devapi/store/drivers/sqlite"
	"github.com/aussiebroadwan/carhire/pkg/cryptox"
	"github.com/aussiebroadwan/carhire/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application is the development rental API with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	accountService *service.AccountService
	vehicleService *service.VehicleService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application. logger may be nil, in which case one is built
// from cfg.
func New(cfg Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slogx.New(slogx.Config{
			Service: "devapi",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		})
	}
	app := &Application{cfg: cfg, logger: logger}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.seed(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Handler exposes the router so tests can serve it without a listener.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("devapi starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down devapi...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("devapi stopped")
	return nil
}

// Close releases the database without touching the HTTP server.
func (app *Application) Close() error {
	return app.db.Close()
}

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() error {
	hasher, err := cryptox.NewPasswordHasherFromFile(app.cfg.PepperFile)
	if err != nil {
		return err
	}

	signer, verifier, err := InitSigningKey(app.cfg, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize signing key: %w", err)
	}

	app.accountService = &service.AccountService{
		Store:    app.db,
		Hasher:   hasher,
		Signer:   signer,
		Issuer:   app.cfg.Issuer,
		TokenTTL: app.cfg.TokenTTL,
	}
	app.vehicleService = &service.VehicleService{Store: app.db}

	router := httpapi.NewRouter(verifier, BuildVersion, app.logger)
	router.AccountService = app.accountService
	router.VehicleService = app.vehicleService
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}

// seed loads the demo fleet and the first admin account when configured.
func (app *Application) seed(ctx context.Context) error {
	ctx = slogx.WithContext(ctx, app.logger)

	if app.cfg.SeedVehicles {
		if err := app.vehicleService.SeedCatalogue(ctx, service.DemoFleet()); err != nil {
			return fmt.Errorf("seed vehicles: %w", err)
		}
		app.logger.Info("vehicle catalogue seeded", "vehicles", len(service.DemoFleet()))
	}

	if app.cfg.AdminEmail != "" {
		if _, err := app.accountService.BootstrapAdmin(ctx, app.cfg.AdminEmail, app.cfg.AdminPassword); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}
	return nil
}
