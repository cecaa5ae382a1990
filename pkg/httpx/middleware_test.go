package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/carhire/pkg/cryptox"
	"github.com/aussiebroadwan/carhire/pkg/httpx"
	"github.com/aussiebroadwan/carhire/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "carhire-api"

func newVerifier(t *testing.T) (jwtx.Signer, jwtx.Verifier) {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)

	verifier, err := jwtx.NewCommonEdDSA(signer, testIssuer)
	require.NoError(t, err)

	return signer, verifier
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) httpx.ErrorBody {
	t.Helper()

	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	t.Parallel()

	signer, verifier := newVerifier(t)

	protected := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := httpx.UserIDFromContext(r.Context())
		require.True(t, ok)
		httpx.WriteJSON(w, http.StatusOK, map[string]string{
			"user_id": id,
			"role":    httpx.RoleFromContext(r.Context()),
		})
	}), httpx.AuthnMiddleware(verifier))

	t.Run("valid token", func(t *testing.T) {
		claims := jwtx.NewRenterClaims("u1", "a@b.com", "RENTER", "A B", "", true,
			time.Hour, testIssuer, time.Now())
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"user_id":"u1","role":"RENTER"}`, rec.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
		require.Equal(t, "missing bearer token", decodeErrorBody(t, rec).Message)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwtx.NewRenterClaims("u1", "a@b.com", "RENTER", "A B", "", true,
			time.Hour, testIssuer, time.Now().Add(-2*time.Hour))
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "token expired", decodeErrorBody(t, rec).Message)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	signer, verifier := newVerifier(t)

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), httpx.AuthnMiddleware(verifier), httpx.RequireRole("ADMIN"))

	for role, want := range map[string]int{
		"ADMIN":  http.StatusNoContent,
		"admin":  http.StatusNoContent,
		"RENTER": http.StatusForbidden,
	} {
		claims := jwtx.NewRenterClaims("u1", "a@b.com", role, "", "", true, time.Hour, testIssuer, time.Now())
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, want, rec.Code, role)
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	var dst struct {
		Email string `json:"email"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", stringsReader(`{"email":"a@b.com"}`))
	require.NoError(t, httpx.DecodeJSON(req, &dst))
	require.Equal(t, "a@b.com", dst.Email)

	req = httptest.NewRequest(http.MethodPost, "/", stringsReader(`{"email":"a@b.com","admin":true}`))
	require.Error(t, httpx.DecodeJSON(req, &dst))
}
