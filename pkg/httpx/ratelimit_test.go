package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/carhire/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func stringsReader(s string) *strings.Reader { return strings.NewReader(s) }

func TestIPKeyExtractor(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	require.Equal(t, "10.0.0.1", httpx.IPKeyExtractor(req))

	req.Header.Set("X-Real-IP", "10.0.0.2")
	require.Equal(t, "10.0.0.2", httpx.IPKeyExtractor(req))

	req.Header.Set("X-Forwarded-For", "10.0.0.3, 10.0.0.4")
	require.Equal(t, "10.0.0.3", httpx.IPKeyExtractor(req))
}

func TestRateLimitByIP(t *testing.T) {
	t.Parallel()

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), httpx.RateLimitByIP(httpx.RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            time.Hour,
		Burst:             2,
	}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusNoContent, do("10.0.0.1:1").Code)
	require.Equal(t, http.StatusNoContent, do("10.0.0.1:2").Code)

	rec := do("10.0.0.1:3")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "rate_limited", decodeErrorBody(t, rec).Code)

	// Other clients have their own bucket.
	require.Equal(t, http.StatusNoContent, do("10.0.0.2:1").Code)
}

func TestParseRateLimitFromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_TEST_REQUESTS", "50")
	t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "30")
	t.Setenv("RATELIMIT_TEST_BURST", "-1")

	def := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 5}
	cfg := httpx.ParseRateLimitFromEnv("TEST", def)

	require.Equal(t, 50, cfg.RequestsPerWindow)
	require.Equal(t, 30*time.Second, cfg.Window)
	require.Equal(t, 5, cfg.Burst)
}
