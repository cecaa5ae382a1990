package rentalsdk

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/carhire/pkg/idx"
	"github.com/aussiebroadwan/carhire/pkg/slogx"
)

// TokenSource returns the current access token, or "" when there is none.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Invalidator ends the session built on token. It must ignore tokens that
// are no longer current and reports whether it acted.
type Invalidator interface {
	Invalidate(ctx context.Context, token string) bool
}

// Transport is the authenticated request pipeline. It attaches the current
// credential to each request and reports 401 responses to the Invalidator.
type Transport struct {
	Base        http.RoundTripper // defaults to http.DefaultTransport
	Tokens      TokenSource
	Invalidator Invalidator
	Logger      *slog.Logger // defaults to a discarding logger
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	var token string
	if t.Tokens != nil {
		var err error
		if token, err = t.Tokens.Token(ctx); err != nil {
			return nil, fmt.Errorf("rentalsdk: read credential: %w", err)
		}
	}

	// RoundTrippers must not modify the caller's request.
	req = req.Clone(ctx)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", idx.New().String())
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && token != "" && t.Invalidator != nil {
		// The session must end even if the caller has given up on the request.
		if t.Invalidator.Invalidate(context.WithoutCancel(ctx), token) {
			t.logger().Info("credential_rejected",
				"method", req.Method,
				"path", req.URL.Path,
				"req_id", req.Header.Get("X-Request-ID"),
			)
		}
	}

	return resp, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slogx.Discard()
}
