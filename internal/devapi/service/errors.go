package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("service: invalid email or password")
	ErrAccountDisabled    = errors.New("service: account disabled")
	ErrEmailTaken         = errors.New("service: email already registered")
	ErrForbidden          = errors.New("service: forbidden")
	ErrNotFound           = errors.New("service: not found")
)

// ValidationError reports a request field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}
