package rentalsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListVehicles returns the vehicle catalogue.
func (c *SDKClient) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	resp, err := c.doAuthRequest(ctx, http.MethodGet, "/vehicles", nil)
	if err != nil {
		return nil, err
	}

	var list VehicleListResponse
	if err := decodeJSON(resp, &list); err != nil {
		return nil, err
	}
	return list.Vehicles, nil
}

// GetVehicle fetches a single vehicle.
func (c *SDKClient) GetVehicle(ctx context.Context, id string) (*Vehicle, error) {
	resp, err := c.doAuthRequest(ctx, http.MethodGet, "/vehicles/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var v Vehicle
	if err := decodeJSON(resp, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
