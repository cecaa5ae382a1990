package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/carhire/internal/devapi/domain"
	"github.com/aussiebroadwan/carhire/internal/devapi/service"
	"github.com/aussiebroadwan/carhire/pkg/httpx"
	"github.com/aussiebroadwan/carhire/pkg/rentalsdk"
	"github.com/aussiebroadwan/carhire/pkg/slogx"
)

type UsersHandler struct {
	AccountService *service.AccountService
}

func toUser(u domain.User) rentalsdk.User {
	return rentalsdk.User{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.Phone,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

// HandleGet returns one account.
//
//	@Summary		Get a user
//	@Description	Renters may read their own account. Admins may read any.
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		string					true	"User ID"
//	@Success		200	{object}	rentalsdk.User			"Account"
//	@Failure		401	{object}	httpx.ErrorBody			"Unauthorized - missing or invalid token"
//	@Failure		403	{object}	httpx.ErrorBody			"Forbidden"
//	@Failure		404	{object}	httpx.ErrorBody			"Not found"
//	@Security		BearerAuth
//	@Router			/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID, _ := httpx.UserIDFromContext(ctx)

	u, err := h.AccountService.GetUser(ctx, callerID, httpx.RoleFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

// HandleSetActive enables or disables an account.
//
//	@Summary		Enable or disable a user
//	@Description	Admin only. Outstanding tokens of a disabled account are rejected with 401.
//	@Tags			Users
//	@Accept			json
//	@Param			id		path	string						true	"User ID"
//	@Param			body	body	rentalsdk.SetActiveRequest	true	"New state"
//	@Success		204
//	@Failure		401	{object}	httpx.ErrorBody	"Unauthorized - missing or invalid token"
//	@Failure		403	{object}	httpx.ErrorBody	"Forbidden - admin only"
//	@Failure		404	{object}	httpx.ErrorBody	"Not found"
//	@Security		BearerAuth
//	@Router			/users/{id}/active [patch].
func (h *UsersHandler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	var req rentalsdk.SetActiveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed request body")
		return
	}

	if err := h.AccountService.SetActive(r.Context(), r.PathValue("id"), req.IsActive); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps service sentinels onto API errors.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Not found")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "you do not have access to this resource")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
	}
}
