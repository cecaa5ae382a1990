package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/carhire/internal/session"
	"github.com/aussiebroadwan/carhire/pkg/rentalsdk"
)

// authAdapter serves session.AuthService from the rental API.
type authAdapter struct {
	api *rentalsdk.SDKClient
}

func (a authAdapter) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := a.api.Login(ctx, email, password)
	if err != nil {
		// A 4xx is the server saying no to these credentials. Anything else
		// is an outage and stays an infrastructure error.
		var apiErr *rentalsdk.APIError
		if errors.As(err, &apiErr) &&
			apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
			return "", &session.AuthenticationError{Message: apiErr.Message, StatusCode: apiErr.StatusCode}
		}
		return "", err
	}
	return resp.AccessToken, nil
}

// usersAdapter serves session.UserService from the rental API.
type usersAdapter struct {
	api *rentalsdk.SDKClient
}

func (u usersAdapter) GetByID(ctx context.Context, id string) (session.Profile, error) {
	user, err := u.api.GetUserByID(ctx, id)
	if err != nil {
		return session.Profile{}, err
	}
	return session.Profile{
		ID:       user.ID,
		Name:     user.FullName,
		Email:    user.Email,
		Role:     user.Role,
		Phone:    user.Phone,
		IsActive: user.IsActive,
	}, nil
}
