package session

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/carhire/internal/credstore"
	"github.com/aussiebroadwan/carhire/pkg/jwtx"
)

// Restore loads the stored session. A stored credential that is malformed,
// expired or missing its profile snapshot is purged. A storage read failure
// ends in StatusUnauthenticated with the cause in State.Err; whatever is
// stored stays put so a later Logout can still purge it. Restore never
// fails; the outcome is the returned State.
func (m *Manager) Restore(ctx context.Context) State {
	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	m.token = ""
	token, err := m.store.Get(ctx, credstore.KeyAccessToken)
	if errors.Is(err, credstore.ErrNotFound) {
		// A profile without a credential is useless; drop it quietly.
		if err := m.store.Remove(ctx, credstore.KeyUserProfile); err != nil {
			m.logger.Warn("credential_purge_failed", "key", string(credstore.KeyUserProfile), "err", err)
		}
		m.setState(unauthenticated(), "no_credential")
		return m.State()
	}
	if err != nil {
		m.restoreFailed(err)
		return m.State()
	}

	claims, err := jwtx.Decode(token)
	if err != nil {
		m.logger.Warn("stored_credential_rejected", "err", err)
		m.purgeLocked(ctx)
		m.setState(unauthenticated(), "credential_malformed")
		return m.State()
	}
	if claims.ExpiredAt(m.now()) {
		m.purgeLocked(ctx)
		m.setState(unauthenticated(), "credential_expired", "expired_at", claims.ExpiresUnix())
		return m.State()
	}

	raw, err := m.store.Get(ctx, credstore.KeyUserProfile)
	if errors.Is(err, credstore.ErrNotFound) {
		m.purgeLocked(ctx)
		m.setState(unauthenticated(), "profile_missing")
		return m.State()
	}
	if err != nil {
		m.restoreFailed(err)
		return m.State()
	}

	profile, err := decodeProfile(raw)
	if err != nil {
		m.logger.Warn("stored_profile_rejected", "err", err)
		m.purgeLocked(ctx)
		m.setState(unauthenticated(), "profile_malformed")
		return m.State()
	}
	profile.ID = claims.UserID

	m.token = token
	m.setState(authenticated(claims.UserID, profile), "restored")
	return m.State()
}

func (m *Manager) restoreFailed(err error) {
	m.logger.Error("restore_failed", "err", err)
	m.setState(State{Status: StatusUnauthenticated, Err: err}, "storage_unavailable")
}
