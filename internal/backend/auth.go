// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// SignInWithPassword calls POST /auth/v1/token?grant_type=password.
func (h *HTTP) SignInWithPassword(ctx context.Context, email, password string) (*TokenResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	req, err := h.newRequest(ctx, http.MethodPost, h.endpoints.Token+"?grant_type=password", "", body)
	if err != nil {
		return nil, err
	}
	var out TokenResponse
	if err := h.doJSON(req, "sign-in", &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, errors.New("no access_token in response")
	}
	return &out, nil
}

// SignUp calls POST /auth/v1/signup with the account metadata under "data".
// When the project requires email confirmation the backend answers with the
// bare user object; otherwise it answers with a full token bundle.
func (h *HTTP) SignUp(ctx context.Context, email, password string, data map[string]any) (*SignUpResponse, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     data,
	}
	req, err := h.newRequest(ctx, http.MethodPost, h.endpoints.SignUp, "", body)
	if err != nil {
		return nil, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp, "sign-up")
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseSignUp(raw)
}

// parseSignUp distinguishes the two sign-up response shapes.
func parseSignUp(raw []byte) (*SignUpResponse, error) {
	var tok TokenResponse
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken != "" && tok.User != nil {
		return &SignUpResponse{User: tok.User, Session: &tok}, nil
	}

	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, errors.New("sign-up response contained no user")
	}
	return &SignUpResponse{User: &u}, nil
}

// Logout calls POST /auth/v1/logout with the session's access token.
// A session the backend no longer knows (401, 403, 404) is already logged out.
func (h *HTTP) Logout(ctx context.Context, accessToken string) error {
	req, err := h.newRequest(ctx, http.MethodPost, h.endpoints.Logout, accessToken, nil)
	if err != nil {
		return err
	}
	err = h.doJSON(req, "logout", nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return nil
		}
	}
	return err
}
