package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/carhire/internal/devapi/service"
	"github.com/aussiebroadwan/carhire/pkg/httpx"
	"github.com/aussiebroadwan/carhire/pkg/rentalsdk"
	"github.com/aussiebroadwan/carhire/pkg/slogx"
)

type AuthHandler struct {
	AccountService *service.AccountService
}

// HandleLogin exchanges email and password for an access token.
//
//	@Summary		Log in
//	@Description	Verifies the credentials and returns a signed access token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		rentalsdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	rentalsdk.LoginResponse		"Access token"
//	@Failure		400		{object}	httpx.ErrorBody				"Malformed request"
//	@Failure		401		{object}	httpx.ErrorBody				"Invalid email or password"
//	@Failure		403		{object}	httpx.ErrorBody				"Account disabled"
//	@Failure		429		{object}	httpx.ErrorBody				"Rate limited"
//	@Router			/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req rentalsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed request body")
		return
	}

	token, err := h.AccountService.Login(ctx, req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		log.Info("login rejected", "reason", "invalid_credentials")
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	case errors.Is(err, service.ErrAccountDisabled):
		log.Info("login rejected", "reason", "account_disabled")
		httpx.WriteError(w, http.StatusForbidden, "account_disabled", "Account is disabled")
		return
	case err != nil:
		log.Error("login failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, rentalsdk.LoginResponse{AccessToken: token})
}

// HandleRegister creates a renter account.
//
//	@Summary		Register a renter
//	@Description	Creates an active renter account. Does not sign in.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		rentalsdk.RegisterRenterRequest	true	"New account"
//	@Success		201		{object}	rentalsdk.User					"Created account"
//	@Failure		400		{object}	rentalsdk.ErrorResponse			"Validation failed, message is a list"
//	@Failure		409		{object}	httpx.ErrorBody					"Email already registered"
//	@Failure		429		{object}	httpx.ErrorBody					"Rate limited"
//	@Router			/auth/register-renter [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req rentalsdk.RegisterRenterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed request body")
		return
	}

	u, err := h.AccountService.RegisterRenter(ctx, service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		// Validation failures use the list form of message.
		httpx.WriteJSON(w, http.StatusBadRequest, validationBody{
			Message: []string{verr.Error()},
			Error:   "Bad Request",
		})
		return
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, "email_taken", "Email is already registered")
		return
	case err != nil:
		log.Error("register failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	log.Info("renter registered", "user_id", u.ID)
	httpx.WriteJSON(w, http.StatusCreated, toUser(u))
}

type validationBody struct {
	Message []string `json:"message"`
	Error   string   `json:"error"`
}
