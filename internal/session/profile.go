package session

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aussiebroadwan/carhire/internal/credstore"
	"github.com/aussiebroadwan/carhire/pkg/jwtx"
)

// Profile is the cached copy of the user-facing account fields. It may lag
// behind the server until the next RefreshProfile.
type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"is_active"`
}

func profileFromClaims(c jwtx.Claims, email string) Profile {
	if c.Email != "" {
		email = c.Email
	}
	p := Profile{
		ID:       c.UserID,
		Name:     c.FullName,
		Email:    email,
		Role:     c.Role,
		Phone:    c.Phone,
		IsActive: c.IsActive,
	}
	if p.Name == "" {
		p.Name = localPart(email)
	}
	return p
}

// fallbackProfile is what login records when the issued token carries no
// usable identity.
func fallbackProfile(email string) Profile {
	return Profile{Name: localPart(email), Email: email, IsActive: true}
}

func localPart(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

func encodeProfile(p Profile) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeProfile(raw string) (Profile, error) {
	var p Profile
	err := json.Unmarshal([]byte(raw), &p)
	return p, err
}

// RefreshProfile re-fetches the profile of the signed-in user. When the
// user service fails the profile is rebuilt from the stored credential
// instead, so a transient fetch error never ends the session. It is a no-op
// when no identity is known.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	st, token := m.snapshot()
	if !st.Authenticated() || st.UserID == "" {
		m.logger.Warn("refresh_profile_skipped", "status", st.Status.String())
		return nil
	}

	source := "user_service"

	profile, err := m.users.GetByID(ctx, st.UserID)
	if err != nil {
		m.logger.Warn("profile_fetch_failed", "user_id", st.UserID, "err", err)

		fallback, ok := m.profileFromStoredToken(ctx, st.Profile.Email)
		if !ok {
			return nil
		}
		profile, source = fallback, "credential"
	}
	profile.ID = st.UserID

	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	if m.token != token || m.State().UserID != st.UserID {
		m.logger.Info("refresh_profile_dropped", "user_id", st.UserID, "reason", "credential_changed")
		return nil
	}

	raw, err := encodeProfile(profile)
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, credstore.KeyUserProfile, raw); err != nil {
		m.logger.Error("profile_persist_failed", "user_id", st.UserID, "err", err)
		return err
	}

	m.setState(authenticated(st.UserID, profile), "profile_refreshed", "source", source)
	return nil
}

func (m *Manager) profileFromStoredToken(ctx context.Context, email string) (Profile, bool) {
	token, err := m.store.Get(ctx, credstore.KeyAccessToken)
	if err != nil {
		m.logger.Warn("profile_fallback_unavailable", "err", err)
		return Profile{}, false
	}

	claims, err := jwtx.Decode(token)
	if err != nil {
		m.logger.Warn("profile_fallback_unavailable", "err", err)
		return Profile{}, false
	}
	return profileFromClaims(claims, email), true
}
