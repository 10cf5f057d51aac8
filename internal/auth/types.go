// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth is the backend client handle: a single configured client for
// the hosted authentication and data service.
//
// The client owns the provider session. It persists the session to the OS
// keychain, restores it on first use, refreshes the access token shortly
// before it expires, and notifies subscribers of every session change. Token
// signatures are never validated here; the backend is the authority.
package auth

import (
	"maps"
	"time"
)

// Event names a session change delivered to listeners.
type Event string

const (
	// EventSignedIn reports a new session from sign-in or auto-confirmed sign-up.
	EventSignedIn Event = "SIGNED_IN"
	// EventSignedOut reports that the session is gone (sign-out or rejected refresh).
	EventSignedOut Event = "SIGNED_OUT"
	// EventTokenRefreshed reports a rotated token bundle for the same user.
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
)

// Listener receives session changes. session is nil after EventSignedOut.
type Listener func(event Event, session *Session)

// User is the identity issued by the provider.
type User struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Clone returns a deep-enough copy for handing to callers.
func (u User) Clone() User {
	u.Metadata = maps.Clone(u.Metadata)
	return u
}

// Session is the provider-issued token bundle with its user.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// ExpiresWithin reports whether the access token expires within d of now.
// A session without a known expiry never expires.
func (s *Session) ExpiresWithin(now time.Time, d time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(d).Before(s.ExpiresAt)
}

// Clone returns a copy safe to hand to another goroutine.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.User = s.User.Clone()
	return &c
}

// Metadata is the account metadata sent with sign-up. The backend copies it
// into the new profile row.
type Metadata struct {
	Name string
	Role string
}

func (m Metadata) toMap() map[string]any {
	return map[string]any{
		"name": m.Name,
		"role": m.Role,
	}
}
