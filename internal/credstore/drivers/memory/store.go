// Package memory is an in-process credstore driver for tests and one-shot
// runs that should leave nothing on disk.
package memory

import (
	"context"
	"sync"

	"github.com/aussiebroadwan/carhire/internal/credstore"
)

type Store struct {
	mu     sync.RWMutex
	values map[credstore.Key]string

	// errors injected by FailOn, keyed by operation name
	failMu sync.Mutex
	fail   map[string]error
}

var _ credstore.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		values: make(map[credstore.Key]string),
		fail:   make(map[string]error),
	}
}

// FailOn makes every later call of op ("get", "set", "remove", "clear")
// fail with a StorageError wrapping err. A nil err clears the injection.
func (s *Store) FailOn(op string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()

	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

func (s *Store) injected(op string, key credstore.Key) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()

	if err, ok := s.fail[op]; ok {
		return &credstore.StorageError{Op: op, Key: key, Err: err}
	}
	return nil
}

func (s *Store) Get(_ context.Context, key credstore.Key) (string, error) {
	if err := credstore.ValidateKey(key); err != nil {
		return "", &credstore.StorageError{Op: "get", Key: key, Err: err}
	}
	if err := s.injected("get", key); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", credstore.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key credstore.Key, value string) error {
	if err := credstore.ValidateKey(key); err != nil {
		return &credstore.StorageError{Op: "set", Key: key, Err: err}
	}
	if err := s.injected("set", key); err != nil {
		return err
	}

	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *Store) Remove(_ context.Context, key credstore.Key) error {
	if err := credstore.ValidateKey(key); err != nil {
		return &credstore.StorageError{Op: "remove", Key: key, Err: err}
	}
	if err := s.injected("remove", key); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	if err := s.injected("clear", ""); err != nil {
		return err
	}

	s.mu.Lock()
	clear(s.values)
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error { return nil }
