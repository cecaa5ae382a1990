package app_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/carhire/internal/devapi/app"
	"github.com/aussiebroadwan/carhire/pkg/rentalsdk"
	"github.com/aussiebroadwan/carhire/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DEVAPI_ISSUER", "")
	t.Setenv("DEVAPI_TOKEN_TTL", "90m")
	t.Setenv("DEVAPI_SEED_VEHICLES", "false")
	t.Setenv("PORT", "not-a-port")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "2")

	cfg := app.LoadConfig()
	require.Equal(t, "carhire-api", cfg.Issuer)
	require.Equal(t, 90*time.Minute, cfg.TokenTTL)
	require.False(t, cfg.SeedVehicles)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 2*time.Minute, cfg.ShutdownGracePeriod)
}

func newConfig(t *testing.T) app.Config {
	t.Helper()

	dir := t.TempDir()
	return app.Config{
		Issuer:         "carhire-api",
		DatabaseFile:   filepath.Join(dir, "devapi.db"),
		PepperFile:     filepath.Join(dir, "pepper"),
		SigningKeyFile: filepath.Join(dir, "signing.pem"),
		TokenTTL:       time.Hour,
		SeedVehicles:   true,
		AdminEmail:     "admin@example.com",
		AdminPassword:  "admin-password",
	}
}

func TestApplicationServesSeededData(t *testing.T) {
	ctx := context.Background()
	cfg := newConfig(t)

	application, err := app.New(cfg, slogx.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)

	client := rentalsdk.NewSDKClient(srv.URL)
	login, err := client.Login(ctx, "admin@example.com", "admin-password")
	require.NoError(t, err)

	authed := rentalsdk.NewSDKClient(srv.URL, rentalsdk.WithCredentials(staticToken(login.AccessToken), nil))
	vehicles, err := authed.ListVehicles(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, vehicles)
}

func TestSigningKeyPersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := newConfig(t)

	first, err := app.New(cfg, slogx.Discard())
	require.NoError(t, err)
	srv := httptest.NewServer(first.Handler())
	login, err := rentalsdk.NewSDKClient(srv.URL).Login(ctx, "admin@example.com", "admin-password")
	require.NoError(t, err)
	srv.Close()
	require.NoError(t, first.Close())

	second, err := app.New(cfg, slogx.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })
	srv = httptest.NewServer(second.Handler())
	t.Cleanup(srv.Close)

	authed := rentalsdk.NewSDKClient(srv.URL, rentalsdk.WithCredentials(staticToken(login.AccessToken), nil))
	_, err = authed.ListVehicles(ctx)
	require.NoError(t, err)
}

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }
