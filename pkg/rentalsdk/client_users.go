package rentalsdk

import (
	"context"
	"net/http"
	"net/url"
)

// GetUserByID fetches an account. Renters may only read their own.
func (c *SDKClient) GetUserByID(ctx context.Context, id string) (*User, error) {
	resp, err := c.doAuthRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUserActive enables or disables an account. Admin only. Tokens already
// issued to a disabled account are rejected with 401 from then on.
func (c *SDKClient) SetUserActive(ctx context.Context, id string, active bool) error {
	resp, err := c.doAuthRequest(ctx, http.MethodPatch, "/users/"+url.PathEscape(id)+"/active",
		SetActiveRequest{IsActive: active})
	if err != nil {
		return err
	}
	return checkStatus(resp)
}
