// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"errors"
	"net/http"
)

// RefreshToken calls POST /auth/v1/token?grant_type=refresh_token.
// The backend rotates refresh tokens, so callers must persist the returned one.
func (h *HTTP) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if refreshToken == "" {
		return nil, errors.New("refresh token is empty")
	}
	body := map[string]string{
		"refresh_token": refreshToken,
	}
	req, err := h.newRequest(ctx, http.MethodPost, h.endpoints.Token+"?grant_type=refresh_token", "", body)
	if err != nil {
		return nil, err
	}
	var out TokenResponse
	if err := h.doJSON(req, "refresh-token", &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, errors.New("no access_token in response")
	}
	return &out, nil
}
