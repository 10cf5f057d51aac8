// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/sync/singleflight"

	"alumnet/cli/internal/backend"
	apperrors "alumnet/cli/internal/errors"
	"alumnet/cli/internal/logging"
)

// Options configures a Client.
type Options struct {
	// PersistSession stores the session in Storage and restores it on first use.
	PersistSession bool
	// AutoRefreshToken refreshes the access token RefreshMargin before expiry.
	AutoRefreshToken bool
	// Storage is the persistent session store (the OS keychain in production).
	Storage Storage
	// RefreshMargin is how long before expiry the token is refreshed. Default 60s.
	RefreshMargin time.Duration
	// RetryInterval is the delay before retrying a refresh that failed for a
	// transient reason. Default 10s.
	RetryInterval time.Duration
	// Logger receives diagnostics. Default discards.
	Logger *pterm.Logger
	// Now overrides the clock (tests).
	Now func() time.Time
}

// Client is the configured handle to the hosted auth and data service.
// It is safe for concurrent use; construct one per process.
type Client struct {
	be   backend.API
	opts Options
	log  *pterm.Logger
	now  func() time.Time

	refreshGroup singleflight.Group

	mu        sync.Mutex
	session   *Session
	gen       uint64 // bumped on every install or clear
	restored  bool
	listeners []listenerEntry
	nextID    uint64
	timer     *time.Timer
	closed    bool

	// storeMu orders storage writes, which run outside mu.
	storeMu sync.Mutex
	stored  uint64
}

// NewClient constructs the client handle over be.
func NewClient(be backend.API, opts Options) *Client {
	if opts.RefreshMargin <= 0 {
		opts.RefreshMargin = time.Minute
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 10 * time.Second
	}
	c := &Client{
		be:   be,
		opts: opts,
		log:  opts.Logger,
		now:  opts.Now,
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// GetSession returns the current session, or nil when signed out.
// The first call restores the persisted session. An expired session is
// refreshed; one whose refresh token is rejected is cleared.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	if !c.restored {
		c.restored = true
		c.session = c.loadPersisted()
	}
	s := c.session
	if s != nil && c.timer == nil {
		c.scheduleRefreshLocked(s)
	}
	c.mu.Unlock()

	if s == nil {
		return nil, nil
	}
	if !s.ExpiresWithin(c.now(), 0) {
		return s.Clone(), nil
	}

	c.log.Debug("stored session expired, refreshing", c.log.Args("user_id", s.User.ID))
	if s.RefreshToken == "" {
		c.clearSession(EventSignedOut)
		return nil, nil
	}
	ns, err := c.RefreshSession(ctx)
	if err != nil {
		if backend.IsClientError(err) {
			return nil, nil
		}
		return nil, err
	}
	return ns, nil
}

// SignInWithPassword authenticates with email and password. On success the
// session is stored and listeners receive EventSignedIn before it returns.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	tok, err := c.be.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s := sessionFrom(tok, nil, c.now())
	if s.User.ID == "" {
		return nil, errors.New("sign-in response contained no user")
	}
	c.setSession(s, EventSignedIn)
	return s.Clone(), nil
}

// SignUp creates an account with meta as user metadata. When the backend
// issues a session right away (auto-confirm) it is stored and listeners
// receive EventSignedIn; otherwise the returned session is nil.
func (c *Client) SignUp(ctx context.Context, email, password string, meta Metadata) (*User, *Session, error) {
	res, err := c.be.SignUp(ctx, email, password, meta.toMap())
	if err != nil {
		return nil, nil, err
	}
	u := userFrom(res.User)
	if res.Session == nil {
		return &u, nil, nil
	}
	s := sessionFrom(res.Session, &u, c.now())
	c.setSession(s, EventSignedIn)
	return &u, s.Clone(), nil
}

// SignOut revokes the session remotely, then forgets it locally.
// If the remote call fails the local session is kept and the error returned.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()

	if s != nil {
		if err := c.be.Logout(ctx, s.AccessToken); err != nil {
			return err
		}
	}
	c.clearSession(EventSignedOut)
	return nil
}

// Close stops automatic refresh and drops all listeners.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.listeners = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// setSession installs s, persists it and notifies listeners.
func (c *Client) setSession(s *Session, event Event) {
	c.mu.Lock()
	c.restored = true
	c.session = s
	c.gen++
	gen := c.gen
	c.scheduleRefreshLocked(s)
	c.mu.Unlock()

	c.store(gen, s)
	c.emit(event, s)
}

// clearSession forgets the session, clears storage and notifies listeners.
func (c *Client) clearSession(event Event) {
	c.mu.Lock()
	c.restored = true
	c.session = nil
	c.gen++
	gen := c.gen
	c.stopTimerLocked()
	c.mu.Unlock()

	c.store(gen, nil)
	c.emit(event, nil)
}

// store persists the session installed as generation gen. Storage can be
// slow (the macOS security command), so it runs without mu; a write older
// than one already stored is dropped.
func (c *Client) store(gen uint64, s *Session) {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	if gen <= c.stored {
		return
	}
	c.stored = gen
	c.persist(s)
}

// accessToken returns the token for data API calls, empty when signed out.
func (c *Client) accessToken(ctx context.Context) string {
	s, err := c.GetSession(ctx)
	if err != nil || s == nil {
		return ""
	}
	return s.AccessToken
}

// requireSession is used by calls that are meaningless when signed out.
func requireSession(s *Session) error {
	if s == nil {
		return apperrors.New(apperrors.SessionMissing, "no active session")
	}
	return nil
}
