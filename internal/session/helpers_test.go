package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/carhire/internal/credstore"
	"github.com/aussiebroadwan/carhire/internal/credstore/drivers/memory"
	"github.com/aussiebroadwan/carhire/internal/session"
	"github.com/aussiebroadwan/carhire/pkg/cryptox"
	"github.com/aussiebroadwan/carhire/pkg/jwtx"
	"github.com/aussiebroadwan/carhire/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "carhire-api"

// mintToken signs a renter token the way the API would.
func mintToken(t *testing.T, userID, email string, exp time.Time) string {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test", pemKey)
	require.NoError(t, err)

	claims := jwtx.NewRenterClaims(userID, email, "RENTER", "Test Renter", "", true,
		time.Hour, testIssuer, exp.Add(-time.Hour))
	token, err := signer.Sign(claims)
	require.NoError(t, err)
	return token
}

type fakeAuth struct {
	mu    sync.Mutex
	token string
	err   error
	calls int

	// When set, Login signals entered and then waits for release.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (string, error) {
	f.mu.Lock()
	f.calls++
	token, err := f.token, f.err
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if entered != nil {
		close(entered)
		<-release
	}
	return token, err
}

type fakeUsers struct {
	mu      sync.Mutex
	profile session.Profile
	err     error
	ids     []string

	entered chan struct{}
	release chan struct{}
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (session.Profile, error) {
	f.mu.Lock()
	f.ids = append(f.ids, id)
	profile, err := f.profile, f.err
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if entered != nil {
		close(entered)
		<-release
	}
	return profile, err
}

type harness struct {
	store    credstore.Store
	auth     *fakeAuth
	users    *fakeUsers
	recorder *slogx.Recorder
	manager  *session.Manager

	mu     sync.Mutex
	states []session.State
}

func newHarness(t *testing.T, store credstore.Store) *harness {
	t.Helper()

	if store == nil {
		store = memory.NewStore()
	}
	h := &harness{
		store:    store,
		auth:     &fakeAuth{},
		users:    &fakeUsers{},
		recorder: slogx.NewRecorder(),
	}
	h.manager = session.NewManager(session.Config{
		Store:  h.store,
		Auth:   h.auth,
		Users:  h.users,
		Logger: h.recorder.Logger(),
	})
	h.manager.Subscribe(func(s session.State) {
		h.mu.Lock()
		h.states = append(h.states, s)
		h.mu.Unlock()
	})
	return h
}

// statuses returns the status of every published state, in order.
func (h *harness) statuses() []session.Status {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]session.Status, 0, len(h.states))
	for _, s := range h.states {
		out = append(out, s.Status)
	}
	return out
}

// transitions returns the "to" attribute of every logged transition.
func (h *harness) transitions() []string {
	var out []string
	for _, v := range h.recorder.Values("session_transition", "to") {
		out = append(out, v.(string))
	}
	return out
}

func (h *harness) stored(t *testing.T, key credstore.Key) (string, bool) {
	t.Helper()

	v, err := h.store.Get(context.Background(), key)
	if credstore.IsNotFound(err) {
		return "", false
	}
	require.NoError(t, err)
	return v, true
}

func (h *harness) seed(t *testing.T, key credstore.Key, value string) {
	t.Helper()
	require.NoError(t, h.store.Set(context.Background(), key, value))
}

// gatedStore pauses the next Set of one key until released.
type gatedStore struct {
	credstore.Store

	mu      sync.Mutex
	key     credstore.Key
	entered chan struct{}
	release chan struct{}
}

// gate arms the next Set of key. The returned channels report that the
// write has started and let it proceed.
func (g *gatedStore) gate(key credstore.Key) (entered, release chan struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.key = key
	g.entered = make(chan struct{})
	g.release = make(chan struct{})
	return g.entered, g.release
}

func (g *gatedStore) Set(ctx context.Context, key credstore.Key, value string) error {
	g.mu.Lock()
	entered, release := g.entered, g.release
	hit := entered != nil && key == g.key
	if hit {
		g.entered, g.release = nil, nil
	}
	g.mu.Unlock()

	if hit {
		close(entered)
		<-release
	}
	return g.Store.Set(ctx, key, value)
}

func (f *fakeUsers) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ids...)
}
