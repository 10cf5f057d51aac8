// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"alumnet/cli/internal/backend"
)

// expiryOf determines when tok's access token expires: the absolute
// expires_at when present, then the relative expires_in, then the exp claim of
// the token itself. The claim is read without verifying the signature.
func expiryOf(tok *backend.TokenResponse, now time.Time) time.Time {
	if tok.ExpiresAt > 0 {
		return time.Unix(tok.ExpiresAt, 0)
	}
	if tok.ExpiresIn > 0 {
		return now.Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return claimExpiry(tok.AccessToken)
}

// claimExpiry returns the exp claim of a JWT, or the zero time.
func claimExpiry(accessToken string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// userFrom converts the transport user.
func userFrom(u *backend.User) User {
	if u == nil {
		return User{}
	}
	return User{
		ID:        u.ID,
		Email:     u.Email,
		Metadata:  u.UserMetadata,
		CreatedAt: u.CreatedAt,
	}
}

// sessionFrom builds a Session from a token bundle. fallback supplies the user
// when the bundle carries none (some refresh responses omit it).
func sessionFrom(tok *backend.TokenResponse, fallback *User, now time.Time) *Session {
	s := &Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		ExpiresAt:    expiryOf(tok, now),
		User:         userFrom(tok.User),
	}
	if s.User.ID == "" && fallback != nil {
		s.User = fallback.Clone()
	}
	return s
}
