package http

import (
	"net/http"

	"github.com/aussiebroadwan/carhire/internal/devapi/domain"
	"github.com/aussiebroadwan/carhire/internal/devapi/service"
	"github.com/aussiebroadwan/carhire/pkg/httpx"
	"github.com/aussiebroadwan/carhire/pkg/rentalsdk"
)

type VehiclesHandler struct {
	VehicleService *service.VehicleService
}

func toVehicle(v domain.Vehicle) rentalsdk.Vehicle {
	return rentalsdk.Vehicle{
		ID:             v.ID,
		Make:           v.Make,
		Model:          v.Model,
		Year:           v.Year,
		Seats:          v.Seats,
		Transmission:   v.Transmission,
		Station:        v.Station,
		DailyRateCents: v.DailyRateCents,
		Available:      v.Available,
	}
}

// HandleList returns the fleet.
//
//	@Summary		List vehicles
//	@Tags			Vehicles
//	@Produce		json
//	@Success		200	{object}	rentalsdk.VehicleListResponse	"Fleet"
//	@Failure		401	{object}	httpx.ErrorBody					"Unauthorized - missing or invalid token"
//	@Security		BearerAuth
//	@Router			/vehicles [get].
func (h *VehiclesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.VehicleService.ListVehicles(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := rentalsdk.VehicleListResponse{Vehicles: make([]rentalsdk.Vehicle, len(list))}
	for i, v := range list {
		resp.Vehicles[i] = toVehicle(v)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet returns one vehicle.
//
//	@Summary		Get a vehicle
//	@Tags			Vehicles
//	@Produce		json
//	@Param			id	path		string				true	"Vehicle ID"
//	@Success		200	{object}	rentalsdk.Vehicle	"Vehicle"
//	@Failure		401	{object}	httpx.ErrorBody		"Unauthorized - missing or invalid token"
//	@Failure		404	{object}	httpx.ErrorBody		"Not found"
//	@Security		BearerAuth
//	@Router			/vehicles/{id} [get].
func (h *VehiclesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	v, err := h.VehicleService.GetVehicle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toVehicle(v))
}
