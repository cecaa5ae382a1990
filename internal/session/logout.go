package session

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/carhire/internal/credstore"
)

// Logout purges the stored credential and profile and moves to
// StatusUnauthenticated. Storage failures are logged and never block the
// transition. Calling it again is harmless.
func (m *Manager) Logout(ctx context.Context) {
	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	m.resets++
	m.purgeLocked(ctx)
	m.token = ""
	m.setState(unauthenticated(), "logout")
}

// Invalidate is the forced logout used when the API rejects token with 401.
// It only acts while token is still the stored credential, so a rejection
// of an older credential cannot end a newer session. It reports whether the
// session was invalidated.
//
// Unlike Logout it does not supersede a Login or SetCredential already in
// flight: those carry a new credential the rejection says nothing about.
func (m *Manager) Invalidate(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}

	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	stored, err := m.store.Get(ctx, credstore.KeyAccessToken)
	switch {
	case err == nil && stored != token:
		m.logger.Info("invalidation_ignored", "reason", "credential_replaced")
		return false
	case errors.Is(err, credstore.ErrNotFound) && m.token != token:
		m.logger.Info("invalidation_ignored", "reason", "no_credential")
		return false
	case err != nil && !errors.Is(err, credstore.ErrNotFound):
		// Can't compare; fail closed if the rejected token is ours.
		m.logger.Warn("invalidation_store_read_failed", "err", err)
		if m.token != token {
			return false
		}
	}

	m.purgeLocked(ctx)
	m.token = ""
	m.setState(unauthenticated(), "forced_invalidation")
	return true
}

// purgeLocked clears the store, falling back to removing keys one by one
// when the atomic clear fails. Callers hold commitMu.
func (m *Manager) purgeLocked(ctx context.Context) {
	err := m.store.Clear(ctx)
	if err == nil {
		return
	}
	m.logger.Warn("credential_clear_failed", "err", err)

	for _, key := range credstore.Keys {
		if err := m.store.Remove(ctx, key); err != nil {
			m.logger.Error("credential_purge_failed", "key", string(key), "err", err)
		}
	}
}
