// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"alumnet/cli/internal/manifest"
)

// clientInfo identifies this client to the backend.
const clientInfo = "alumnet-cli"

// HTTP implements API over the REST endpoints of the hosted backend.
type HTTP struct {
	// baseURL is the project URL (e.g., "https://<ref>.supabase.co")
	baseURL string
	// anonKey is the public API key sent as "apikey" on every request
	anonKey string
	// endpoints contains the URL paths for the auth and data APIs
	endpoints manifest.HTTPEndpoints
	// client is the underlying HTTP client with configured timeout
	client *http.Client
}

// newHTTP creates a new HTTP client with the given base URL, key and endpoints.
// It configures a 10-second timeout for all requests.
func newHTTP(baseURL, anonKey string, endpoints manifest.HTTPEndpoints) *HTTP {
	return &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		anonKey:   anonKey,
		endpoints: endpoints,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// newRequest builds a request against path with the standard headers.
// An empty accessToken authenticates as the anonymous role.
func (h *HTTP) newRequest(ctx context.Context, method, path, accessToken string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, r)
	if err != nil {
		return nil, err
	}
	h.setStandardHeaders(req, accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// setStandardHeaders applies the API key, bearer and client headers.
func (h *HTTP) setStandardHeaders(req *http.Request, accessToken string) {
	bearer := accessToken
	if bearer == "" {
		bearer = h.anonKey
	}
	req.Header.Set("apikey", h.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Info", clientInfo)
}

// doJSON executes req and decodes a 2xx JSON body into out (when non-nil).
func (h *HTTP) doJSON(req *http.Request, op string, out any) error {
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, op)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetVersion calls GET /auth/v1/health and returns the version string when available.
// No authentication required. This can be used to check connectivity to the backend service.
func (h *HTTP) GetVersion(ctx context.Context) (string, error) {
	req, err := h.newRequest(ctx, http.MethodGet, h.endpoints.Health, "", nil)
	if err != nil {
		return "", err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "unknown", nil
	}
	var out struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Version == "" {
		return "unknown", nil
	}
	return out.Version, nil
}
