package rentalsdk

import "encoding/json"

// ErrorResponse is the union of the error shapes the API has been seen to
// return. Message may be a string or a list of validation messages.
type ErrorResponse struct {
	Message          json.RawMessage `json:"message,omitempty"`
	Code             string          `json:"code,omitempty"`
	Error            string          `json:"error,omitempty"`
	ErrorDescription string          `json:"error_description,omitempty"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

// RegisterRenterRequest is the body of POST /auth/register-renter.
type RegisterRenterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}

// User is an account as returned by GET /users/{id}.
type User struct {
	ID       string `json:"_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// Vehicle is a rentable car.
type Vehicle struct {
	ID           string `json:"_id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Seats        int    `json:"seats"`
	Transmission string `json:"transmission"`
	Station      string `json:"station,omitempty"`

	// DailyRateCents is the price per day in the smallest currency unit.
	DailyRateCents int64 `json:"daily_rate_cents"`
	Available      bool  `json:"available"`
}

// VehicleListResponse is returned by GET /vehicles.
type VehicleListResponse struct {
	Vehicles []Vehicle `json:"vehicles"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// SetActiveRequest is the body of PATCH /users/{id}/active.
type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}
