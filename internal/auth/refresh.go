// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"time"

	"alumnet/cli/internal/backend"
	"alumnet/cli/internal/logging"
)

// refreshTimeout bounds a background refresh.
const refreshTimeout = 30 * time.Second

// RefreshSession exchanges the refresh token for a new bundle.
// Concurrent callers share one request: refresh tokens rotate, so a second
// request with the same token would be rejected as reuse. A rejected refresh
// token clears the session and emits EventSignedOut.
func (c *Client) RefreshSession(ctx context.Context) (*Session, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		c.mu.Lock()
		cur := c.session
		c.mu.Unlock()
		if err := requireSession(cur); err != nil {
			return nil, err
		}

		tok, err := c.be.RefreshToken(ctx, cur.RefreshToken)
		if err != nil {
			if backend.IsClientError(err) {
				c.log.Info("refresh token rejected, signing out", c.log.Args("user_id", cur.User.ID))
				c.clearSession(EventSignedOut)
			}
			return nil, err
		}
		s := sessionFrom(tok, &cur.User, c.now())
		if s.RefreshToken == "" {
			s.RefreshToken = cur.RefreshToken
		}
		c.setSession(s, EventTokenRefreshed)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session).Clone(), nil
}

// scheduleRefreshLocked arms the refresh timer for s. Caller holds c.mu.
func (c *Client) scheduleRefreshLocked(s *Session) {
	if !c.opts.AutoRefreshToken || c.closed || s.ExpiresAt.IsZero() || s.RefreshToken == "" {
		return
	}
	c.stopTimerLocked()
	d := s.ExpiresAt.Sub(c.now()) - c.opts.RefreshMargin
	if d < 0 {
		d = 0
	}
	c.armLocked(d)
}

func (c *Client) armLocked(d time.Duration) {
	c.timer = time.AfterFunc(d, c.autoRefresh)
}

func (c *Client) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// autoRefresh runs on the timer goroutine.
func (c *Client) autoRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	_, err := c.RefreshSession(ctx)
	if err == nil || backend.IsClientError(err) {
		return
	}
	c.log.Warn("token refresh failed, retrying", c.log.Args("error", logging.Mask(err.Error()), "retry_in", c.opts.RetryInterval))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.session == nil {
		return
	}
	c.stopTimerLocked()
	c.armLocked(c.opts.RetryInterval)
}
