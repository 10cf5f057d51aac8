// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v5"

	apperrors "alumnet/cli/internal/errors"
	"alumnet/cli/internal/logging"
	"alumnet/cli/internal/profile"
)

var errNotProvisioned = errors.New("profile row not created yet")

// fetchProfile loads the profile of userID and applies it if userID is still
// the current user. Failures are logged only: the state stays pending.
func (m *Manager) fetchProfile(ctx context.Context, userID string) {
	m.log.Debug("fetching profile", m.log.Args("user_id", userID))
	p, err := m.profiles.GetProfileByID(ctx, userID)
	if err != nil {
		m.log.Warn("error fetching profile", m.log.Args("user_id", userID, "error", logging.Mask(err.Error())))
		return
	}
	if p == nil {
		m.log.Debug("no profile row", m.log.Args("user_id", userID))
		return
	}
	m.applyProfile(userID, p)
}

// applyProfile installs p unless the user changed while it was in flight.
func (m *Manager) applyProfile(userID string, p *profile.Profile) {
	m.update(func(st *State) {
		if st.CurrentUser == nil || st.CurrentUser.ID != userID {
			m.log.Debug("dropping profile for inactive user", m.log.Args("user_id", userID))
			return
		}
		cp := *p
		st.Profile = &cp
	})
}

// awaitProvisioned polls for the profile row created at sign-up. The first
// attempt is immediate; only absence is retried, a failed read ends the wait.
func (m *Manager) awaitProvisioned(ctx context.Context, userID string) {
	attempts := 0
	op := func() (*profile.Profile, error) {
		attempts++
		m.log.Debug("fetching profile", m.log.Args("user_id", userID, "attempt", attempts))
		p, err := m.profiles.GetProfileByID(ctx, userID)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if p == nil {
			return nil, errNotProvisioned
		}
		return p, nil
	}

	p, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(m.newBackOff()),
		backoff.WithMaxElapsedTime(m.provisionTimeout))
	if err != nil {
		if errors.Is(err, errNotProvisioned) {
			err = apperrors.Wrap(apperrors.ProvisionTimeout, "profile was not provisioned in time", err)
		}
		m.log.Warn("error fetching profile", m.log.Args("user_id", userID, "attempts", attempts, "error", logging.Mask(err.Error())))
		return
	}
	m.applyProfile(userID, p)
}
