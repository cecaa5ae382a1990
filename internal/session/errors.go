package session

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned by Login and SetCredential when the user logged
// out while they were in flight. Nothing was persisted. A forced
// invalidation of the previous credential does not supersede them.
var ErrSuperseded = errors.New("session: superseded by logout")

// AuthenticationError means the authentication service rejected the
// credentials. Message is the server's text, suitable for display.
type AuthenticationError struct {
	Message    string
	StatusCode int
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return "session: credentials rejected"
	}
	return e.Message
}

// InvalidCredentialError means a token handed to SetCredential cannot be
// used: it does not decode or has already expired.
type InvalidCredentialError struct {
	Err error
}

func (e *InvalidCredentialError) Error() string {
	return fmt.Sprintf("session: invalid credential: %v", e.Err)
}

func (e *InvalidCredentialError) Unwrap() error { return e.Err }
