// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pterm/pterm"

	"alumnet/cli/internal/auth"
	"alumnet/cli/internal/backend"
	"alumnet/cli/internal/config"
	"alumnet/cli/internal/dsn"
	apperrors "alumnet/cli/internal/errors"
	"alumnet/cli/internal/httperrors"
	"alumnet/cli/internal/keychain"
	"alumnet/cli/internal/logging"
	"alumnet/cli/internal/manifest"
	"alumnet/cli/internal/notify"
	"alumnet/cli/internal/profile"
	"alumnet/cli/internal/router"
	"alumnet/cli/internal/session"
)

// app is the wired client for one command invocation.
type app struct {
	cfg     config.Config
	log     *pterm.Logger
	client  *auth.Client
	store   *profile.PGStore
	nav     *router.Router
	notes   *countingNotifier
	net     *httperrors.Reporter
	session *session.Manager
}

// countingNotifier prints notifications and counts failures so commands can
// set their exit status. The last failure description is kept for
// explainFailure.
type countingNotifier struct {
	*notify.Terminal
	failed atomic.Int32

	mu   sync.Mutex
	last string
}

func (n *countingNotifier) Error(title, description string) {
	n.failed.Add(1)
	n.mu.Lock()
	n.last = description
	n.mu.Unlock()
	n.Terminal.Error(title, description)
}

func (n *countingNotifier) lastFailure() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

// failed reports whether any operation has shown a failure so far.
func (a *app) failed() bool {
	return a.notes.failed.Load() > 0
}

// explainFailure adds network guidance when the last failed operation could
// not reach the backend.
func (a *app) explainFailure(action string) {
	a.net.ReportMessage(action, a.notes.lastFailure())
}

// newApp loads configuration, builds the client handle and the session
// manager, and runs the initial session check. start is the view to open;
// empty means the configured start path.
func newApp(ctx context.Context, start string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logging.New(cfg.LogLevel, os.Stderr)

	m, err := manifest.Resolve(cfg.BackendURL, cfg.AnonKey)
	if err != nil {
		return nil, err
	}
	log.Debug("backend resolved", log.Args("host", m.Host()))

	km, err := keychain.GetManager()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.StorageUnavailable, "secure storage is not available on this system", err)
	}

	client := auth.NewClient(backend.New(m), auth.Options{
		PersistSession:   true,
		AutoRefreshToken: true,
		Storage:          km,
		Logger:           log,
	})

	a := &app{cfg: cfg, log: log, client: client, net: httperrors.NewReporter(os.Stderr, m.Host())}

	var profiles session.ProfileReader = profile.NewService(client)
	var rows session.RowUpdater = client
	if cfg.DatabaseURL != "" {
		store, err := profile.NewPGStore(ctx, cfg.DatabaseURL)
		if err != nil {
			client.Close()
			return nil, err
		}
		if info, err := dsn.Parse(cfg.DatabaseURL); err == nil {
			log.Debug("profiles served from database", log.Args("target", info.Redacted()))
		}
		a.store = store
		profiles, rows = store, store
	}

	if start == "" {
		start = cfg.StartPath
	}
	a.nav = router.New(start)
	a.nav.OnNavigate(func(from, to string) {
		log.Debug("navigate", log.Args("from", from, "to", to))
	})

	a.notes = &countingNotifier{Terminal: notify.NewTerminal(os.Stderr)}
	a.session = session.New(session.Deps{
		Provider:         client,
		Profiles:         profiles,
		Rows:             rows,
		Notifier:         a.notes,
		Navigator:        a.nav,
		Logger:           log,
		ProvisionTimeout: time.Duration(cfg.ProvisionTimeout),
	})
	a.session.WatchPhase(func(from, to session.Phase) {
		log.Debug("session", log.Args("from", from.String(), "to", to.String()))
	})
	if err := a.session.Init(ctx); err != nil {
		a.Close()
		return nil, err
	}
	a.session.Wait()
	return a, nil
}

// Close waits for background work, then releases everything.
func (a *app) Close() {
	a.session.Wait()
	a.session.Dispose()
	a.client.Close()
	if a.store != nil {
		a.store.Close()
	}
}
