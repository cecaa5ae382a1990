package rentalsdk

import (
	"context"
	"errors"
	"net/http"
)

// Login exchanges email and password for an access token. Bad credentials
// come back as *APIError with a 4xx status and the server's message.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/login", LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var login LoginResponse
	if err := decodeJSON(resp, &login); err != nil {
		return nil, err
	}
	if login.AccessToken == "" {
		return nil, errors.New("rentalsdk: login response has no accessToken")
	}
	return &login, nil
}

// RegisterRenter creates a renter account. It does not sign in.
func (c *SDKClient) RegisterRenter(ctx context.Context, req RegisterRenterRequest) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/register-renter", req)
	if err != nil {
		return err
	}
	return checkStatus(resp)
}
