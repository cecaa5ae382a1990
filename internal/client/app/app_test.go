package app_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	clientapp "github.com/aussiebroadwan/carhire/internal/client/app"
	"github.com/aussiebroadwan/carhire/internal/credstore"
	devapp "github.com/aussiebroadwan/carhire/internal/devapi/app"
	"github.com/aussiebroadwan/carhire/internal/session"
	"github.com/aussiebroadwan/carhire/pkg/rentalsdk"
	"github.com/aussiebroadwan/carhire/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-password"
	renterEmail   = "jane@example.com"
	renterPass    = "correct-horse"
)

// startAPI serves an in-process development API with a seeded fleet and an
// admin account.
func startAPI(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	api, err := devapp.New(devapp.Config{
		Issuer:        "carhire-api",
		DatabaseFile:  filepath.Join(dir, "devapi.db"),
		PepperFile:    filepath.Join(dir, "pepper"),
		TokenTTL:      time.Hour,
		SeedVehicles:  true,
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
	}, slogx.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = api.Close() })

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	err = rentalsdk.NewSDKClient(srv.URL).RegisterRenter(context.Background(), rentalsdk.RegisterRenterRequest{
		Email:    renterEmail,
		Password: renterPass,
		FullName: "Jane Doe",
		Phone:    "+61 400 000 000",
	})
	require.NoError(t, err)

	return srv.URL
}

func newClient(t *testing.T, apiURL, credentialsFile string) (*clientapp.App, *slogx.Recorder) {
	t.Helper()

	rec := slogx.NewRecorder()
	a, err := clientapp.New(clientapp.Config{
		APIURL:          apiURL,
		CredentialsFile: credentialsFile,
		HTTPTimeout:     5 * time.Second,
	}, rec.Logger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, rec
}

func TestLoginRestoreLogout(t *testing.T) {
	ctx := context.Background()
	apiURL := startAPI(t)
	credentials := filepath.Join(t.TempDir(), "nested", "credentials.db")

	first, _ := newClient(t, apiURL, credentials)
	require.Equal(t, session.StatusUnauthenticated, first.Start(ctx).Status)

	require.NoError(t, first.Session.Login(ctx, renterEmail, renterPass))
	st := first.Session.State()
	require.Equal(t, session.StatusAuthenticated, st.Status)
	require.NotEmpty(t, st.UserID)
	require.Equal(t, "Jane Doe", st.Profile.Name)
	require.Equal(t, "RENTER", st.Profile.Role)

	vehicles, err := first.API.ListVehicles(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, vehicles)

	require.NoError(t, first.Session.RefreshProfile(ctx))
	require.Equal(t, "+61 400 000 000", first.Session.State().Profile.Phone)
	require.NoError(t, first.Close())

	second, _ := newClient(t, apiURL, credentials)
	restored := second.Start(ctx)
	require.Equal(t, session.StatusAuthenticated, restored.Status)
	require.Equal(t, st.UserID, restored.UserID)

	second.Session.Logout(ctx)
	require.Equal(t, session.StatusUnauthenticated, second.Session.State().Status)
	_, err = second.Store.Get(ctx, credstore.KeyAccessToken)
	require.True(t, credstore.IsNotFound(err))

	_, err = second.API.ListVehicles(ctx)
	require.True(t, rentalsdk.IsUnauthorized(err))
}

func TestBadPasswordKeepsSession(t *testing.T) {
	ctx := context.Background()
	apiURL := startAPI(t)
	a, _ := newClient(t, apiURL, filepath.Join(t.TempDir(), "credentials.db"))
	a.Start(ctx)

	require.NoError(t, a.Session.Login(ctx, renterEmail, renterPass))
	before := a.Session.State()

	err := a.Session.Login(ctx, renterEmail, "wrong-password")
	var authErr *session.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, 401, authErr.StatusCode)
	require.Equal(t, "Invalid email or password", authErr.Error())

	require.Equal(t, before, a.Session.State())
}

func TestDisabledAccountForcesInvalidation(t *testing.T) {
	ctx := context.Background()
	apiURL := startAPI(t)

	admin, _ := newClient(t, apiURL, filepath.Join(t.TempDir(), "admin.db"))
	admin.Start(ctx)
	require.NoError(t, admin.Session.Login(ctx, adminEmail, adminPassword))

	renter, rec := newClient(t, apiURL, filepath.Join(t.TempDir(), "renter.db"))
	renter.Start(ctx)
	require.NoError(t, renter.Session.Login(ctx, renterEmail, renterPass))
	renterID := renter.Session.State().UserID

	require.NoError(t, admin.API.SetUserActive(ctx, renterID, false))

	_, err := renter.API.ListVehicles(ctx)
	require.True(t, rentalsdk.IsUnauthorized(err))

	require.Equal(t, session.StatusUnauthenticated, renter.Session.State().Status)
	_, err = renter.Store.Get(ctx, credstore.KeyAccessToken)
	require.True(t, credstore.IsNotFound(err))
	require.Contains(t, rec.Values("session_transition", "reason"), "forced_invalidation")

	// The admin session is untouched.
	require.True(t, admin.Session.State().Authenticated())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RENTAL_API_URL", "http://api.test")
	t.Setenv("RENTAL_CREDENTIALS_FILE", "/tmp/creds.db")
	t.Setenv("RENTAL_HTTP_TIMEOUT", "3s")

	cfg, err := clientapp.LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "http://api.test", cfg.APIURL)
	require.Equal(t, "/tmp/creds.db", cfg.CredentialsFile)
	require.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	require.Equal(t, "warn", cfg.LogLevel)

	t.Setenv("RENTAL_HTTP_TIMEOUT", "soon")
	_, err = clientapp.LoadConfig()
	require.Error(t, err)
}
