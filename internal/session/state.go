// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"alumnet/cli/internal/auth"
	"alumnet/cli/internal/profile"
)

// Phase is the coarse authentication state derived from a State.
type Phase int

const (
	// PhaseLoading: the initial session check has not completed.
	PhaseLoading Phase = iota
	// PhaseUnauthenticated: no active session.
	PhaseUnauthenticated
	// PhasePendingProfile: signed in, profile not loaded (yet).
	PhasePendingProfile
	// PhaseAuthenticated: signed in with the profile loaded.
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhasePendingProfile:
		return "pending_profile"
	case PhaseAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// State is the mirrored session. Profile is only set while CurrentUser is.
type State struct {
	CurrentUser *auth.User
	Profile     *profile.Profile
	Session     *auth.Session
	// IsLoading is true until the initial check completes and while a
	// sign-in or sign-up is in flight.
	IsLoading bool
	// Error holds the message of the last failed sign-in or sign-up.
	Error string
	// Initialized is set once the initial session check has completed.
	Initialized bool
}

// Phase reports the coarse state.
func (s State) Phase() Phase {
	switch {
	case !s.Initialized:
		return PhaseLoading
	case s.CurrentUser == nil:
		return PhaseUnauthenticated
	case s.Profile == nil:
		return PhasePendingProfile
	}
	return PhaseAuthenticated
}

// clone deep-copies the pointer fields.
func (s State) clone() State {
	if s.CurrentUser != nil {
		u := s.CurrentUser.Clone()
		s.CurrentUser = &u
	}
	if s.Profile != nil {
		p := *s.Profile
		s.Profile = &p
	}
	s.Session = s.Session.Clone()
	return s
}

// setSession mirrors sess into the state and drops a profile that belongs to
// another user.
func (s *State) setSession(sess *auth.Session) {
	s.Session = sess
	if sess == nil {
		s.CurrentUser = nil
		s.Profile = nil
		return
	}
	u := sess.User.Clone()
	s.CurrentUser = &u
	if s.Profile != nil && s.Profile.ID != u.ID {
		s.Profile = nil
	}
}
