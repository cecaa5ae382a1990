package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/carhire/internal/devapi/domain"
	"github.com/aussiebroadwan/carhire/internal/devapi/service"
	"github.com/aussiebroadwan/carhire/internal/devapi/store/drivers/sqlite"
	"github.com/aussiebroadwan/carhire/pkg/cryptox"
	"github.com/aussiebroadwan/carhire/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "carhire-api-test"

type fixture struct {
	accounts *service.AccountService
	vehicles *service.VehicleService
	verifier jwtx.Verifier
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "devapi.db")))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)
	verifier, err := jwtx.NewCommonEdDSA(signer, testIssuer)
	require.NoError(t, err)

	return fixture{
		accounts: &service.AccountService{
			Store:    st,
			Hasher:   cryptox.NewPasswordHasher("pepper"),
			Signer:   signer,
			Issuer:   testIssuer,
			TokenTTL: time.Hour,
		},
		vehicles: &service.VehicleService{Store: st},
		verifier: verifier,
	}
}

func register(t *testing.T, f fixture, email string) domain.User {
	t.Helper()

	u, err := f.accounts.RegisterRenter(context.Background(), service.RegisterInput{
		Email:    email,
		Password: "correct-horse",
		FullName: "Jane Doe",
		Phone:    "+61 400 000 000",
	})
	require.NoError(t, err)
	return u
}

func TestRegisterRenter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	u := register(t, f, "  Jane@Example.COM ")
	require.Equal(t, "jane@example.com", u.Email)
	require.Equal(t, domain.RoleRenter, u.Role)
	require.True(t, u.IsActive)
	require.NotEmpty(t, u.ID)
	require.NotEqual(t, "correct-horse", u.PasswordHash)

	t.Run("duplicate email ignores case", func(t *testing.T) {
		_, err := f.accounts.RegisterRenter(ctx, service.RegisterInput{
			Email: "JANE@example.com", Password: "another-pass", FullName: "Other",
		})
		require.ErrorIs(t, err, service.ErrEmailTaken)
	})

	t.Run("validation", func(t *testing.T) {
		cases := map[string]struct {
			in    service.RegisterInput
			field string
		}{
			"bad email":      {service.RegisterInput{Email: "nope", Password: "long-enough", FullName: "A"}, "email"},
			"short password": {service.RegisterInput{Email: "a@b.com", Password: "short", FullName: "A"}, "password"},
			"missing name":   {service.RegisterInput{Email: "a@b.com", Password: "long-enough", FullName: " "}, "full_name"},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := f.accounts.RegisterRenter(ctx, tc.in)
				var verr *service.ValidationError
				require.ErrorAs(t, err, &verr)
				require.Equal(t, tc.field, verr.Field)
			})
		}
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	u := register(t, f, "jane@example.com")

	t.Run("issues a verifiable token", func(t *testing.T) {
		token, err := f.accounts.Login(ctx, "JANE@example.com", "correct-horse")
		require.NoError(t, err)

		claims, err := f.verifier.Verify(token)
		require.NoError(t, err)
		require.Equal(t, u.ID, claims.UserID)
		require.Equal(t, "jane@example.com", claims.Email)
		require.Equal(t, domain.RoleRenter, claims.Role)
		require.Equal(t, "Jane Doe", claims.FullName)
		require.True(t, claims.IsActive)
		require.InDelta(t, time.Now().Add(time.Hour).Unix(), claims.ExpiresUnix(), 5)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.accounts.Login(ctx, "jane@example.com", "wrong")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.accounts.Login(ctx, "who@example.com", "correct-horse")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		other := register(t, f, "disabled@example.com")
		require.NoError(t, f.accounts.SetActive(ctx, other.ID, false))

		_, err := f.accounts.Login(ctx, "disabled@example.com", "correct-horse")
		require.ErrorIs(t, err, service.ErrAccountDisabled)

		active, err := f.accounts.IsActive(ctx, other.ID)
		require.NoError(t, err)
		require.False(t, active)
	})
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	jane := register(t, f, "jane@example.com")
	bob := register(t, f, "bob@example.com")

	got, err := f.accounts.GetUser(ctx, jane.ID, domain.RoleRenter, jane.ID)
	require.NoError(t, err)
	require.Equal(t, jane.Email, got.Email)

	_, err = f.accounts.GetUser(ctx, jane.ID, domain.RoleRenter, bob.ID)
	require.ErrorIs(t, err, service.ErrForbidden)

	got, err = f.accounts.GetUser(ctx, "admin", domain.RoleAdmin, bob.ID)
	require.NoError(t, err)
	require.Equal(t, bob.Email, got.Email)

	_, err = f.accounts.GetUser(ctx, "admin", domain.RoleAdmin, "missing")
	require.ErrorIs(t, err, service.ErrNotFound)

	require.ErrorIs(t, f.accounts.SetActive(ctx, "missing", false), service.ErrNotFound)
}

func TestBootstrapAdmin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	created, err := f.accounts.BootstrapAdmin(ctx, "Admin@Example.com", "admin-password")
	require.NoError(t, err)
	require.True(t, created)

	created, err = f.accounts.BootstrapAdmin(ctx, "second@example.com", "admin-password")
	require.NoError(t, err)
	require.False(t, created)

	token, err := f.accounts.Login(ctx, "admin@example.com", "admin-password")
	require.NoError(t, err)
	claims, err := f.verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestVehicles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.vehicles.SeedCatalogue(ctx, service.DemoFleet()))
	require.NoError(t, f.vehicles.SeedCatalogue(ctx, service.DemoFleet()))

	list, err := f.vehicles.ListVehicles(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(service.DemoFleet()))

	v, err := f.vehicles.GetVehicle(ctx, "veh-cx5")
	require.NoError(t, err)
	require.Equal(t, "Mazda", v.Make)

	_, err = f.vehicles.GetVehicle(ctx, "veh-missing")
	require.ErrorIs(t, err, service.ErrNotFound)
}
