// Package credstore persists the client's bearer credential and the cached
// profile snapshot between runs.
package credstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Key names one of the values the store is allowed to hold.
type Key string

const (
	KeyAccessToken  Key = "access_token"
	KeyUserProfile  Key = "user_profile"
	KeyRefreshToken Key = "refresh_token" // reserved, nothing writes it yet
)

// Keys lists every key the store holds, in Clear order.
var Keys = []Key{KeyAccessToken, KeyUserProfile, KeyRefreshToken}

var (
	ErrNotFound   = errors.New("credstore: not found")
	ErrUnknownKey = errors.New("credstore: unknown key")
)

// Store is durable key-value storage for credentials. Drivers report every
// failure as a *StorageError; a missing key on Get is ErrNotFound.
type Store interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key Key) (string, error)

	// Set replaces the value for key.
	Set(ctx context.Context, key Key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key Key) error

	// Clear removes every key in one step. Either all keys are gone or an
	// error is returned and none were removed.
	Clear(ctx context.Context) error

	Close() error
}

// StorageError wraps a driver failure with the operation and key involved.
type StorageError struct {
	Op  string
	Key Key
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("credstore: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("credstore: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ValidateKey rejects keys outside Keys.
func ValidateKey(key Key) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, string(key))
	}
	return nil
}

// IsNotFound reports whether err means the key holds no value.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
