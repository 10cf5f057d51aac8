// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the auth or data API.
// Error returns the provider's human-readable message unchanged so it can be
// shown to users as-is.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsClientError reports whether err is a 4xx from the backend, i.e. a request
// the backend rejected rather than failed to serve.
func IsClientError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
}

// decodeError builds an APIError from resp.
// Be liberal in what we accept: the auth API and the data API use different
// error shapes, and older auth versions use OAuth-style fields.
func decodeError(resp *http.Response, op string) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err == nil {
		apiErr.Message = firstString(raw, "msg", "error_description", "message", "error")
		apiErr.Code = firstString(raw, "error_code", "code", "error")
		if apiErr.Code == "" {
			if n, ok := raw["code"].(float64); ok {
				apiErr.Code = fmt.Sprintf("%d", int(n))
			}
		}
	} else if text := strings.TrimSpace(string(b)); text != "" && len(text) < 200 {
		apiErr.Message = text
	}

	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("%s failed: %d %s", op, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return apiErr
}

// firstString returns the first non-empty string value among keys.
func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
