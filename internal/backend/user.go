// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"
)

// GetUser calls GET /auth/v1/user with Authorization header.
// Returns an *APIError with status 401 when the access token is no longer valid.
func (h *HTTP) GetUser(ctx context.Context, accessToken string) (*User, error) {
	req, err := h.newRequest(ctx, http.MethodGet, h.endpoints.User, accessToken, nil)
	if err != nil {
		return nil, err
	}
	var u User
	if err := h.doJSON(req, "get-user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}
