// Package app wires the rental client together: the durable credential
// store, the API client and its authenticated pipeline, and the session
// manager that owns the login state.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/carhire/internal/credstore"
	"github.com/aussiebroadwan/carhire/internal/credstore/drivers/sqlite"
	"github.com/aussiebroadwan/carhire/internal/session"
	"github.com/aussiebroadwan/carhire/pkg/rentalsdk"
	"github.com/aussiebroadwan/carhire/pkg/slogx"
)

// App holds the client's long-lived dependencies. Build one per process.
type App struct {
	Config  Config
	Logger  *slog.Logger
	Store   credstore.Store
	API     *rentalsdk.SDKClient
	Session *session.Manager
}

// New opens the credential store and wires the session manager into the API
// client. logger may be nil, in which case one is built from cfg.
func New(cfg Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slogx.New(slogx.Config{
			Service: "rentalctl",
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Output:  os.Stderr,
		})
	}

	if err := os.MkdirAll(filepath.Dir(cfg.CredentialsFile), 0o700); err != nil {
		return nil, fmt.Errorf("create credentials dir: %w", err)
	}
	store, err := sqlite.Open(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	return Wire(cfg, store, logger), nil
}

// Wire builds an App around an already opened store.
func Wire(cfg Config, store credstore.Store, logger *slog.Logger) *App {
	a := &App{Config: cfg, Logger: logger, Store: store}

	// The API client reports rejected credentials to the manager, and the
	// manager logs in through the API client. inv is pointed at the manager
	// once both exist.
	inv := &lateInvalidator{}
	a.API = rentalsdk.NewSDKClient(cfg.APIURL,
		rentalsdk.WithTimeout(cfg.HTTPTimeout),
		rentalsdk.WithCredentials(credstore.TokenSource{Store: store}, inv),
		rentalsdk.WithLogger(logger),
	)
	a.Session = session.NewManager(session.Config{
		Store:  store,
		Auth:   authAdapter{api: a.API},
		Users:  usersAdapter{api: a.API},
		Logger: logger,
	})
	inv.m = a.Session

	return a
}

// Start restores the stored session. It is the first call after New.
func (a *App) Start(ctx context.Context) session.State {
	return a.Session.Restore(ctx)
}

func (a *App) Close() error {
	return a.Store.Close()
}

// lateInvalidator forwards to the manager once it has been built.
type lateInvalidator struct {
	m *session.Manager
}

func (l *lateInvalidator) Invalidate(ctx context.Context, token string) bool {
	if l.m == nil {
		return false
	}
	return l.m.Invalidate(ctx, token)
}
