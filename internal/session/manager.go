// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session mirrors the provider session for the CLI: it holds the
// signed-in user and profile, exposes the operations that change them, and
// applies the route guard after every change.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/pterm/pterm"

	"alumnet/cli/internal/auth"
	"alumnet/cli/internal/logging"
	"alumnet/cli/internal/profile"
)

// DefaultProvisionTimeout bounds the wait for the profile row after sign-up.
const DefaultProvisionTimeout = 10 * time.Second

// Provider is the auth side of the client handle. *auth.Client satisfies it.
type Provider interface {
	OnAuthStateChange(fn auth.Listener) *auth.Subscription
	GetSession(ctx context.Context) (*auth.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*auth.Session, error)
	SignUp(ctx context.Context, email, password string, meta auth.Metadata) (*auth.User, *auth.Session, error)
	SignOut(ctx context.Context) error
}

// ProfileReader is the only read path for profiles.
type ProfileReader interface {
	GetProfileByID(ctx context.Context, userID string) (*profile.Profile, error)
}

// RowUpdater writes a partial row. *auth.Client and *profile.PGStore satisfy it.
type RowUpdater interface {
	UpdateRow(ctx context.Context, table, id string, patch map[string]any) error
}

// Notifier shows transient success and failure messages.
type Notifier interface {
	Success(title, description string)
	Error(title, description string)
}

// Navigator is the view router.
type Navigator interface {
	Path() string
	Navigate(path string)
}

// Deps are the collaborators of a Manager.
type Deps struct {
	Provider  Provider
	Profiles  ProfileReader
	Rows      RowUpdater
	Notifier  Notifier
	Navigator Navigator
	Logger    *pterm.Logger

	// ProvisionTimeout bounds the post sign-up wait for the profile row.
	ProvisionTimeout time.Duration
	// NewBackOff builds the poll schedule for that wait. Defaults to
	// exponential backoff starting at 250ms.
	NewBackOff func() backoff.BackOff
}

// Manager is the session state holder. Construct with New, call Init once,
// and Dispose when done.
type Manager struct {
	provider  Provider
	profiles  ProfileReader
	rows      RowUpdater
	notifier  Notifier
	navigator Navigator
	log       *pterm.Logger

	provisionTimeout time.Duration
	newBackOff       func() backoff.BackOff

	sched  *scheduler
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State
	sub      *auth.Subscription
	started  bool
	disposed bool
	watchers []watcher
	nextW    int
}

type watcher struct {
	id int
	fn func(State)
}

// New builds a Manager in the loading state.
func New(d Deps) *Manager {
	m := &Manager{
		provider:         d.Provider,
		profiles:         d.Profiles,
		rows:             d.Rows,
		notifier:         d.Notifier,
		navigator:        d.Navigator,
		log:              d.Logger,
		provisionTimeout: d.ProvisionTimeout,
		newBackOff:       d.NewBackOff,
		sched:            newScheduler(),
		state:            State{IsLoading: true},
	}
	if m.log == nil {
		m.log = logging.Discard()
	}
	if m.notifier == nil {
		m.notifier = nopNotifier{}
	}
	if m.provisionTimeout <= 0 {
		m.provisionTimeout = DefaultProvisionTimeout
	}
	if m.newBackOff == nil {
		m.newBackOff = defaultBackOff
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}

var errLifecycle = errors.New("session: manager already started or disposed")

// Init subscribes to provider changes and then performs the initial session
// check, fetching the profile when a session exists. It returns once the
// check has completed and loading has cleared.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	if m.started || m.disposed {
		m.mu.Unlock()
		return errLifecycle
	}
	m.started = true
	m.mu.Unlock()

	// Subscribe first so no change between the check and the subscription is missed.
	sub := m.provider.OnAuthStateChange(m.onAuthStateChange)
	m.mu.Lock()
	m.sub = sub
	m.mu.Unlock()

	s, err := m.provider.GetSession(ctx)
	if err != nil {
		m.log.Warn("session check failed", m.log.Args("error", logging.Mask(err.Error())))
		s = nil
	}
	if s != nil {
		m.log.Debug("existing session found", m.log.Args("user_id", s.User.ID))
	} else {
		m.log.Debug("no existing session")
	}
	m.update(func(st *State) { st.setSession(s) })
	if s != nil {
		m.fetchProfile(ctx, s.User.ID)
	}
	m.update(func(st *State) {
		st.IsLoading = false
		st.Initialized = true
	})
	return nil
}

// Dispose unsubscribes from the provider, cancels background work and stops
// the scheduler. It must not be called from a Watch callback.
func (m *Manager) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	sub := m.sub
	m.sub = nil
	m.watchers = nil
	m.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	m.cancel()
	m.sched.Close()
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Watch calls fn with a snapshot after every state change, on the scheduler
// goroutine. The returned func stops delivery. fn must not call Wait or
// Dispose: the running callback counts as queued work, so either would block
// forever.
func (m *Manager) Watch(fn func(State)) (cancel func()) {
	m.mu.Lock()
	id := m.nextW
	m.nextW++
	m.watchers = append(m.watchers, watcher{id: id, fn: fn})
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, w := range m.watchers {
			if w.id == id {
				m.watchers = append(m.watchers[:i:i], m.watchers[i+1:]...)
				return
			}
		}
	}
}

// WatchPhase calls fn whenever the coarse phase changes, with the phase
// before and after. The same restrictions as Watch apply.
func (m *Manager) WatchPhase(fn func(from, to Phase)) (cancel func()) {
	last := m.Snapshot().Phase()
	return m.Watch(func(st State) {
		// Watchers run one at a time on the scheduler loop.
		if p := st.Phase(); p != last {
			from := last
			last = p
			fn(from, p)
		}
	})
}

// Wait blocks until deferred tasks and background profile fetches have
// finished. It must not be called from a Watch callback.
func (m *Manager) Wait() {
	m.sched.Wait()
}

// onAuthStateChange runs inside the provider's notification. It only mirrors
// the session; the profile fetch is deferred to the next tick so it never
// calls back into the provider from within its own callback.
func (m *Manager) onAuthStateChange(event auth.Event, s *auth.Session) {
	m.log.Debug("auth state changed", m.log.Args("event", string(event)))
	m.update(func(st *State) { st.setSession(s) })
	if s == nil {
		return
	}
	userID := s.User.ID
	m.sched.Defer(func() {
		m.sched.Go(func() { m.fetchProfile(m.ctx, userID) })
	})
}

// update mutates the state and schedules watchers and the redirect effect.
func (m *Manager) update(fn func(*State)) {
	m.mu.Lock()
	fn(&m.state)
	snap := m.state.clone()
	m.mu.Unlock()

	m.sched.Defer(func() { m.afterChange(snap) })
}

func (m *Manager) afterChange(snap State) {
	m.mu.Lock()
	ws := append([]watcher(nil), m.watchers...)
	m.mu.Unlock()

	for _, w := range ws {
		w.fn(snap.clone())
	}
	m.redirect()
}

type nopNotifier struct{}

func (nopNotifier) Success(string, string) {}
func (nopNotifier) Error(string, string)   {}
