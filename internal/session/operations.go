// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"context"
	"fmt"

	"alumnet/cli/internal/auth"
	"alumnet/cli/internal/logging"
	"alumnet/cli/internal/profile"
	"alumnet/cli/internal/router"
)

// SignIn authenticates with email and password. On success the profile is
// fetched and a welcome is shown; on failure Error holds the provider message.
// Loading is cleared either way. Errors never reach the caller.
func (m *Manager) SignIn(ctx context.Context, email, password string) {
	m.update(func(st *State) {
		st.IsLoading = true
		st.Error = ""
	})
	defer m.update(func(st *State) { st.IsLoading = false })

	s, err := m.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		m.log.Debug("sign in failed", m.log.Args("error", logging.Mask(err.Error())))
		m.update(func(st *State) { st.Error = messageOr(err, "Failed to sign in") })
		m.notifier.Error("Sign in failed", messageOr(err, "An error occurred while signing in"))
		return
	}
	if s == nil {
		return
	}
	m.log.Debug("sign in successful", m.log.Args("user_id", s.User.ID))
	m.fetchProfile(ctx, s.User.ID)
	m.notifier.Success("Welcome back!", "You've successfully signed in.")
}

// SignUp creates an account whose metadata carries name and role. The
// backend provisions the profile row from that metadata; the Manager polls
// for the row in the background until it appears or ProvisionTimeout passes.
func (m *Manager) SignUp(ctx context.Context, name, email, password string, role profile.Role) {
	m.update(func(st *State) {
		st.IsLoading = true
		st.Error = ""
	})
	defer m.update(func(st *State) { st.IsLoading = false })

	if !role.Valid() {
		msg := fmt.Sprintf("unknown role %q", role)
		m.update(func(st *State) { st.Error = msg })
		m.notifier.Error("Sign up failed", msg)
		return
	}

	u, _, err := m.provider.SignUp(ctx, email, password, auth.Metadata{Name: name, Role: string(role)})
	if err != nil {
		m.log.Debug("sign up failed", m.log.Args("error", logging.Mask(err.Error())))
		m.update(func(st *State) { st.Error = messageOr(err, "Failed to sign up") })
		m.notifier.Error("Sign up failed", messageOr(err, "An error occurred while signing up"))
		return
	}
	m.notifier.Success("Account created!", "Your account has been successfully created.")

	if u == nil || u.ID == "" {
		return
	}
	userID := u.ID
	m.sched.Go(func() { m.awaitProvisioned(m.ctx, userID) })
}

// SignOut ends the session. On success local state is cleared and the view
// moves to the sign-in page; on failure only a notification is shown and the
// local session is kept.
func (m *Manager) SignOut(ctx context.Context) {
	if err := m.provider.SignOut(ctx); err != nil {
		m.log.Debug("sign out failed", m.log.Args("error", logging.Mask(err.Error())))
		m.notifier.Error("Error signing out", messageOr(err, "An error occurred while signing out"))
		return
	}
	m.update(func(st *State) { st.setSession(nil) })
	m.notifier.Success("Signed out", "You've been successfully signed out.")
	if m.navigator != nil {
		m.navigator.Navigate(router.SignIn)
	}
}

// UpdateProfile writes the set fields of patch to the current user's row and
// merges them into the cached profile. Without a user it does nothing. The
// cached profile is not re-fetched and a failed write leaves it untouched.
func (m *Manager) UpdateProfile(ctx context.Context, patch profile.Patch) {
	st := m.Snapshot()
	if st.CurrentUser == nil {
		return
	}
	if patch.Empty() {
		m.log.Debug("empty profile update ignored")
		return
	}
	userID := st.CurrentUser.ID

	if err := m.rows.UpdateRow(ctx, profile.Table, userID, patch.Fields()); err != nil {
		m.log.Debug("profile update failed", m.log.Args("user_id", userID, "error", logging.Mask(err.Error())))
		m.notifier.Error("Error updating profile", messageOr(err, "An error occurred while updating your profile"))
		return
	}
	m.update(func(st *State) {
		if st.Profile == nil || st.CurrentUser == nil || st.CurrentUser.ID != userID {
			return
		}
		merged := st.Profile.Merge(patch)
		st.Profile = &merged
	})
	m.notifier.Success("Profile updated", "Your profile has been successfully updated.")
}

// RefreshProfile re-fetches the current user's profile. Without a user it
// does nothing.
func (m *Manager) RefreshProfile(ctx context.Context) {
	st := m.Snapshot()
	if st.CurrentUser == nil {
		return
	}
	m.fetchProfile(ctx, st.CurrentUser.ID)
}

// messageOr returns err's message, or fallback when it is empty.
func messageOr(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
