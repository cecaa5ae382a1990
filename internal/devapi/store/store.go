package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/carhire/internal/devapi/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface for the development API.
type Store interface {
	Users() Users
	Vehicles() Vehicles

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login. email must already be normalised.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user; a duplicate email is ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	SetActive(ctx context.Context, userID string, active bool) error

	CountUsers(ctx context.Context) (int64, error)
}

type Vehicles interface {
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	GetVehicleByID(ctx context.Context, id string) (domain.Vehicle, error)

	// UpsertVehicle inserts or replaces a vehicle by id.
	UpsertVehicle(ctx context.Context, v domain.Vehicle) error
}
