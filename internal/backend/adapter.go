// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the transport to the hosted backend-as-a-service.
// It speaks the GoTrue-style auth API (password grant, sign-up, refresh,
// logout, user lookup) and the PostgREST-style data API (row select and update).
// The package holds no session state; that lives in internal/auth.
package backend

import "context"

// API defines backend operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide fakes for tests.
type API interface {
	// GetVersion reports the auth service version; no authentication required.
	GetVersion(ctx context.Context) (string, error)
	// SignInWithPassword exchanges email and password for a token bundle.
	SignInWithPassword(ctx context.Context, email, password string) (*TokenResponse, error)
	// SignUp creates an account. data is stored as user metadata and drives
	// server-side profile provisioning. The session is nil while email
	// confirmation is pending.
	SignUp(ctx context.Context, email, password string, data map[string]any) (*SignUpResponse, error)
	// RefreshToken exchanges a refresh token for a new token bundle.
	RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error)
	// Logout revokes the session behind accessToken.
	Logout(ctx context.Context, accessToken string) error
	// GetUser returns the identity behind accessToken.
	GetUser(ctx context.Context, accessToken string) (*User, error)
	// SelectRows decodes all rows of table where column equals value into dest,
	// which must be a pointer to a slice.
	SelectRows(ctx context.Context, accessToken, table, column, value string, dest any) error
	// UpdateRows applies patch to all rows of table where column equals value.
	UpdateRows(ctx context.Context, accessToken, table, column, value string, patch map[string]any) error
}
