package rentalsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// url builds a complete URL by appending the path to the base URL.
func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// doRequest sends a request without a credential.
func (c *SDKClient) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	return c.send(ctx, c.PublicHTTPClient, method, path, body)
}

// doAuthRequest sends a request through the authenticated pipeline.
func (c *SDKClient) doAuthRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	return c.send(ctx, c.HTTPClient, method, path, body)
}

func (c *SDKClient) send(
	ctx context.Context,
	hc *http.Client,
	method, path string,
	body any,
) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("rentalsdk: encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("rentalsdk: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rentalsdk: send request: %w", err)
	}
	return resp, nil
}

// decodeJSON reads a 2xx response into target, or returns the *APIError the
// body describes.
func decodeJSON(resp *http.Response, target any) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("rentalsdk: read response body: %w", err)
	}

	if err := parseErrorResponse(resp, bodyBytes); err != nil {
		return err
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("rentalsdk: decode response: %w", err)
	}
	return nil
}

// checkStatus drains a response whose body is not needed on success.
func checkStatus(resp *http.Response) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("rentalsdk: read response body: %w", err)
	}
	return parseErrorResponse(resp, bodyBytes)
}
