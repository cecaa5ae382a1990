package credstore

import (
	"context"
	"errors"
)

// TokenSource reads the access token from a Store on every call. A missing
// token is "" with no error.
type TokenSource struct {
	Store Store
}

func (s TokenSource) Token(ctx context.Context) (string, error) {
	token, err := s.Store.Get(ctx, KeyAccessToken)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return token, err
}
