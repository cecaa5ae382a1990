// Package session owns the client's authentication state: acquiring a
// bearer credential, restoring it on start, invalidating it and publishing
// the resulting State to subscribers.
//
// Every state-changing operation persists to the credential store before it
// updates the in-memory State, so a reader never sees StatusAuthenticated
// without a durable credential behind it.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/carhire/internal/credstore"
	"github.com/aussiebroadwan/carhire/pkg/slogx"
)

// AuthService exchanges email and password for an access token. A rejection
// of the credentials themselves must be reported as *AuthenticationError.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// UserService fetches the current profile of an account.
type UserService interface {
	GetByID(ctx context.Context, id string) (Profile, error)
}

type Config struct {
	Store  credstore.Store
	Auth   AuthService
	Users  UserService
	Logger *slog.Logger     // defaults to a discarding logger
	Now    func() time.Time // defaults to time.Now
}

// Manager is the single owner of the session state. Construct one per
// process and hand it to whatever needs it.
type Manager struct {
	store  credstore.Store
	auth   AuthService
	users  UserService
	logger *slog.Logger
	now    func() time.Time

	// commitMu serialises the persist-then-update step of every
	// state-changing operation. resets counts user logouts; token is the
	// credential the current state was built from. Both are guarded by
	// commitMu.
	commitMu sync.Mutex
	resets   uint64
	token    string

	mu      sync.RWMutex
	state   State
	subs    []subscription
	nextSub int
}

type subscription struct {
	id int
	fn func(State)
}

// NewManager returns a Manager in StatusRestoring. Call Restore to load the
// stored session.
func NewManager(cfg Config) *Manager {
	m := &Manager{
		store:  cfg.Store,
		auth:   cfg.Auth,
		users:  cfg.Users,
		logger: cfg.Logger,
		now:    cfg.Now,
		state:  State{Status: StatusRestoring},
	}
	if m.logger == nil {
		m.logger = slogx.Discard()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Subscribe registers fn to receive every state change, in the order the
// changes happen. fn runs on the goroutine that changed the state and must
// not call Login, SetCredential, Logout, Invalidate, RefreshProfile or
// Restore itself. The returned func removes the subscription.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs = append(m.subs, subscription{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// setState publishes next. Callers hold commitMu.
func (m *Manager) setState(next State, reason string, attrs ...any) {
	m.mu.Lock()
	prev := m.state
	m.state = next
	subs := make([]subscription, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	args := []any{
		"from", prev.Status.String(),
		"to", next.Status.String(),
		"reason", reason,
	}
	if next.UserID != "" {
		args = append(args, "user_id", next.UserID)
	}
	if next.Err != nil {
		args = append(args, "err", next.Err)
	}
	m.logger.Info("session_transition", append(args, attrs...)...)

	for _, s := range subs {
		s.fn(next)
	}
}

// snapshot returns the state together with the credential it was built
// from. Reading both under commitMu keeps them from straddling a commit.
func (m *Manager) snapshot() (State, string) {
	m.commitMu.Lock()
	defer m.commitMu.Unlock()
	return m.State(), m.token
}

func (m *Manager) resetCount() uint64 {
	m.commitMu.Lock()
	defer m.commitMu.Unlock()
	return m.resets
}
