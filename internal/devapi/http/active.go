package http

import (
	"net/http"

	"github.com/aussiebroadwan/carhire/internal/devapi/service"
	"github.com/aussiebroadwan/carhire/pkg/httpx"
	"github.com/aussiebroadwan/carhire/pkg/slogx"
)

// RequireActiveAccount rejects tokens whose account has been disabled since
// they were issued. It must run after httpx.AuthnMiddleware.
func RequireActiveAccount(accounts *service.AccountService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID, _ := httpx.UserIDFromContext(ctx)

			active, err := accounts.IsActive(ctx, userID)
			if err != nil {
				slogx.FromContext(ctx).Error("account lookup failed", "error", err)
				httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
				return
			}
			if !active {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="account disabled"`)
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "account disabled")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
