package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/carhire/pkg/cryptox"
	"github.com/aussiebroadwan/carhire/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "carhire-api"

func newTestSigner(t *testing.T, kid string) jwtx.Signer {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	return signer
}

func TestEdDSASignAndVerify(t *testing.T) {
	signer := newTestSigner(t, "test-key-eddsa")
	require.NoError(t, signer.Validate())
	require.Equal(t, "EdDSA", signer.Alg())
	require.Equal(t, "test-key-eddsa", signer.KID())

	now := time.Now().UTC()
	claims := jwtx.NewRenterClaims(
		"user-456",
		"renter@example.com",
		"RENTER",
		"Renter Person",
		"+61400000000",
		true,
		5*time.Minute,
		exampleIssuer,
		now,
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verifier, err := jwtx.NewVerifierEdDSA(signer.Public(), exampleIssuer)
	require.NoError(t, err)

	parsed, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, claims.Issuer, parsed.Issuer)
	require.Equal(t, "user-456", parsed.UserID)
	require.Equal(t, "renter@example.com", parsed.Email)
	require.Equal(t, "RENTER", parsed.Role)
	require.Equal(t, "Renter Person", parsed.FullName)
	require.Equal(t, "+61400000000", parsed.Phone)
	require.True(t, parsed.IsActive)
	require.NotEmpty(t, parsed.ID) // JTI should be set
}

func TestEdDSAVerifyFailsForWrongIssuer(t *testing.T) {
	signer := newTestSigner(t, "k1")

	claims := jwtx.NewRenterClaims("user-789", "a@b.com", "RENTER", "", "", true,
		time.Minute, exampleIssuer, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier, err := jwtx.NewVerifierEdDSA(signer.Public(), "wrong-issuer")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestEdDSAVerifyFailsForOtherKey(t *testing.T) {
	signer1 := newTestSigner(t, "key1")
	signer2 := newTestSigner(t, "key2")

	claims := jwtx.NewRenterClaims("user-unknown", "a@b.com", "RENTER", "", "", true,
		time.Minute, exampleIssuer, time.Now().UTC())
	token, err := signer1.Sign(claims)
	require.NoError(t, err)

	verifier, err := jwtx.NewVerifierEdDSA(signer2.Public(), exampleIssuer)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestEdDSAVerifyFailsForExpiredToken(t *testing.T) {
	signer := newTestSigner(t, "k1")

	claims := jwtx.NewRenterClaims("user-1", "a@b.com", "RENTER", "", "", true,
		time.Minute, exampleIssuer, time.Now().Add(-time.Hour))
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier, err := jwtx.NewVerifierEdDSA(signer.Public(), exampleIssuer)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestEdDSAVerifyRejectsUnsignedToken(t *testing.T) {
	signer := newTestSigner(t, "k1")

	// Decode accepts this, a verifier must not.
	token := unsignedToken(t, map[string]any{
		"_id": "user-1",
		"iss": exampleIssuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	verifier, err := jwtx.NewVerifierEdDSA(signer.Public(), exampleIssuer)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestEdDSAValidateFailsForInvalidKey(t *testing.T) {
	_, err := jwtx.NewSignerEdDSA("test", []byte("not-a-pem-key"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid PEM")
}

func TestEdDSACommonVerifierAdapter(t *testing.T) {
	signer := newTestSigner(t, "test-key")

	claims := jwtx.NewRenterClaims("user-123", "adapter@example.com", "ADMIN", "Adapter User", "", true,
		time.Minute, exampleIssuer, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier, err := jwtx.NewCommonEdDSA(signer, exampleIssuer)
	require.NoError(t, err)

	// The common adapter returns Claims by value.
	parsed, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, claims.Subject, parsed.Subject)
	require.Equal(t, "ADMIN", parsed.Role)
}
