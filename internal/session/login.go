package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/carhire/internal/credstore"
	"github.com/aussiebroadwan/carhire/pkg/jwtx"
)

// Login exchanges email and password for a credential and signs in. A
// rejection by the authentication service is returned as
// *AuthenticationError and leaves the current state untouched. An issued
// token that is already expired is refused with *InvalidCredentialError and
// nothing is stored. Other failures are wrapped infrastructure errors.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	start := m.resetCount()

	token, err := m.auth.Login(ctx, email, password)
	if err != nil {
		var authErr *AuthenticationError
		if errors.As(err, &authErr) {
			m.logger.Info("login_rejected", "status", authErr.StatusCode)
			return err
		}
		m.logger.Error("login_failed", "err", err)
		return fmt.Errorf("session: login: %w", err)
	}
	if token == "" {
		m.logger.Error("login_failed", "err", "empty access token")
		return errors.New("session: login: empty access token")
	}

	var (
		userID  string
		profile Profile
	)
	claims, err := jwtx.Decode(token)
	if err != nil {
		m.logger.Warn("login_token_undecodable", "err", err)
		profile = fallbackProfile(email)
	} else {
		if claims.ExpiredAt(m.now()) {
			m.logger.Error("login_failed", "err", jwtx.ErrExpired, "expired_at", claims.ExpiresUnix())
			return fmt.Errorf("session: login: %w", &InvalidCredentialError{Err: jwtx.ErrExpired})
		}
		userID = claims.UserID
		profile = profileFromClaims(claims, email)
	}

	return m.commit(ctx, start, token, userID, profile, "login")
}

// SetCredential signs in with an already issued token, for example one
// handed over by a deep link. The token must decode and be unexpired, else
// *InvalidCredentialError is returned.
func (m *Manager) SetCredential(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	start := m.resetCount()

	claims, err := jwtx.Decode(token)
	if err != nil {
		m.logger.Warn("credential_rejected", "err", err)
		return &InvalidCredentialError{Err: err}
	}
	if claims.ExpiredAt(m.now()) {
		m.logger.Warn("credential_rejected", "err", jwtx.ErrExpired)
		return &InvalidCredentialError{Err: jwtx.ErrExpired}
	}

	return m.commit(ctx, start, token, claims.UserID, profileFromClaims(claims, ""), "credential_set")
}

// commit persists token and profile, then publishes the authenticated
// state. It refuses to commit when a logout or invalidation happened after
// start was read.
func (m *Manager) commit(ctx context.Context, start uint64, token, userID string, profile Profile, reason string) error {
	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	if m.resets != start {
		m.logger.Info("session_commit_superseded", "reason", reason)
		return ErrSuperseded
	}

	raw, err := encodeProfile(profile)
	if err != nil {
		return fmt.Errorf("session: encode profile: %w", err)
	}

	// The profile goes first; the credential write is the commit point.
	if err := m.store.Set(ctx, credstore.KeyUserProfile, raw); err != nil {
		m.logger.Error("profile_persist_failed", "err", err)
		return fmt.Errorf("session: persist profile: %w", err)
	}
	if err := m.store.Set(ctx, credstore.KeyAccessToken, token); err != nil {
		m.logger.Error("credential_persist_failed", "err", err)
		m.restoreProfileLocked(ctx)
		return fmt.Errorf("session: persist credential: %w", err)
	}

	m.token = token
	m.setState(authenticated(userID, profile), reason)
	return nil
}

// restoreProfileLocked puts the stored profile back in line with the
// current state after a failed commit.
func (m *Manager) restoreProfileLocked(ctx context.Context) {
	var err error
	if st := m.State(); m.token != "" && st.Authenticated() {
		var raw string
		if raw, err = encodeProfile(st.Profile); err == nil {
			err = m.store.Set(ctx, credstore.KeyUserProfile, raw)
		}
	} else {
		err = m.store.Remove(ctx, credstore.KeyUserProfile)
	}
	if err != nil {
		m.logger.Error("profile_rollback_failed", "err", err)
	}
}
