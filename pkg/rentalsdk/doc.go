/*
Package rentalsdk is the HTTP client for the car rental API.

# Overview

SDKClient wraps the API's resources: authentication (login and renter
registration), users and vehicles. Public endpoints are called without a
credential. Every other call goes through Transport, the authenticated
request pipeline.

	client := rentalsdk.NewSDKClient("https://api.example.com",
		rentalsdk.WithCredentials(tokens, manager),
	)

	login, err := client.Login(ctx, "renter@example.com", "secret")

	vehicles, err := client.ListVehicles(ctx)

# Authenticated Request Pipeline

Transport reads the current access token from its TokenSource on every
request, never from a cache, and sends it as a bearer token. When the API
answers 401 it hands the token it sent to the Invalidator, which ends the
session if that token is still current. 403 and every other failure are
returned to the caller as *APIError without touching the session. Requests
are never retried.

# Error Handling

Non-2xx responses become *APIError. The message is taken from the first of
"message", "error_description" and "error" present in the body, falling back
to the HTTP status text:

	_, err := client.GetVehicle(ctx, id)
	var apiErr *rentalsdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		// ...
	}

IsUnauthorized and IsForbidden cover the common checks.
*/
package rentalsdk
