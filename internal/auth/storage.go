// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"encoding/json"

	"alumnet/cli/internal/logging"
)

// Storage persists the serialized session between runs.
// *keychain.Manager satisfies it.
type Storage interface {
	LoadSession() ([]byte, error)
	SaveSession(data []byte) error
	ClearSession() error
}

// loadPersisted reads the stored session. Missing or unreadable state yields nil.
func (c *Client) loadPersisted() *Session {
	if !c.opts.PersistSession || c.opts.Storage == nil {
		return nil
	}
	data, err := c.opts.Storage.LoadSession()
	if err != nil {
		c.log.Warn("could not read stored session", c.log.Args("error", logging.Mask(err.Error())))
		return nil
	}
	if len(data) == 0 {
		c.log.Debug("no stored session")
		return nil
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		c.log.Warn("discarding unreadable stored session", c.log.Args("error", logging.Mask(err.Error())))
		return nil
	}
	if s.AccessToken == "" || s.User.ID == "" {
		return nil
	}
	c.log.Debug("restored stored session", c.log.Args("user_id", s.User.ID, "expires_at", s.ExpiresAt))
	return &s
}

// persist writes s (or clears storage when s is nil). Failures are logged:
// the in-memory session stays authoritative for this process.
func (c *Client) persist(s *Session) {
	if !c.opts.PersistSession || c.opts.Storage == nil {
		return
	}
	if s == nil {
		if err := c.opts.Storage.ClearSession(); err != nil {
			c.log.Warn("could not clear stored session", c.log.Args("error", logging.Mask(err.Error())))
		}
		return
	}
	b, err := json.Marshal(s)
	if err != nil {
		c.log.Warn("could not encode session", c.log.Args("error", logging.Mask(err.Error())))
		return
	}
	if err := c.opts.Storage.SaveSession(b); err != nil {
		c.log.Warn("could not store session", c.log.Args("error", logging.Mask(err.Error())))
	}
}
