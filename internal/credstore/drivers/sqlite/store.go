// Package sqlite is the durable credstore driver. Values live in a single
// credentials table keyed by credstore.Key.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/carhire/internal/credstore"
	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	dsn string
}

var _ credstore.Store = (*Store)(nil)

// DSN builds a modernc sqlite DSN for a database file with WAL and a busy
// timeout so a CLI invocation and a long-running client can share the file.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &credstore.StorageError{Op: "open", Err: err}
	}

	return &Store{db: db, dsn: dsn}, nil
}

// Open creates the store for a database file and applies migrations.
func Open(path string) (*Store, error) {
	s, err := NewStore(DSN(path))
	if err != nil {
		return nil, err
	}
	if err := s.ApplyMigrations(); err != nil {
		_ = s.db.Close()
		return nil, &credstore.StorageError{Op: "migrate", Err: err}
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx executes fn within a transaction, committing when fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Get(ctx context.Context, key credstore.Key) (string, error) {
	if err := credstore.ValidateKey(key); err != nil {
		return "", &credstore.StorageError{Op: "get", Key: key, Err: err}
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM credentials WHERE key = ?`, string(key),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", credstore.ErrNotFound
	}
	if err != nil {
		return "", &credstore.StorageError{Op: "get", Key: key, Err: err}
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key credstore.Key, value string) error {
	if err := credstore.ValidateKey(key); err != nil {
		return &credstore.StorageError{Op: "set", Key: key, Err: err}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(key), value, time.Now().UTC(),
	)
	if err != nil {
		return &credstore.StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key credstore.Key) error {
	if err := credstore.ValidateKey(key); err != nil {
		return &credstore.StorageError{Op: "remove", Key: key, Err: err}
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, string(key)); err != nil {
		return &credstore.StorageError{Op: "remove", Key: key, Err: err}
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		for _, key := range credstore.Keys {
			if _, err := tx.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, string(key)); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return &credstore.StorageError{Op: "clear", Err: err}
	}
	return nil
}
