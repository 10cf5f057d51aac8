// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumnet/cli/internal/auth"
	"alumnet/cli/internal/backend"
	"alumnet/cli/internal/keychain"
	"alumnet/cli/internal/profile"
	"alumnet/cli/internal/router"
)

const (
	adaID = "6f1c7a52-0d7e-4f0a-9a1e-3b2c4d5e6f70"
	joID  = "0b9e8d7c-6a5f-4e3d-8c2b-1a0f9e8d7c6b"
)

// fakeBackend is an in-memory backend.API.
type fakeBackend struct {
	mu         sync.Mutex
	signInErr  error
	logoutErr  error
	signUpErr  error
	signUpAuto bool
	signUps    []map[string]any
	updates    []map[string]any
	updateIDs  []string
	updateErr  error
}

func (f *fakeBackend) GetVersion(context.Context) (string, error) { return "test", nil }

func (f *fakeBackend) SignInWithPassword(_ context.Context, email, _ string) (*backend.TokenResponse, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &backend.TokenResponse{
		AccessToken:  "at-" + email,
		RefreshToken: "rt",
		ExpiresIn:    3600,
		User:         &backend.User{ID: adaID, Email: email},
	}, nil
}

func (f *fakeBackend) SignUp(_ context.Context, email, _ string, data map[string]any) (*backend.SignUpResponse, error) {
	f.mu.Lock()
	f.signUps = append(f.signUps, data)
	f.mu.Unlock()
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	u := &backend.User{ID: joID, Email: email, UserMetadata: data}
	res := &backend.SignUpResponse{User: u}
	if f.signUpAuto {
		res.Session = &backend.TokenResponse{AccessToken: "at-jo", RefreshToken: "rt", ExpiresIn: 3600, User: u}
	}
	return res, nil
}

func (f *fakeBackend) RefreshToken(context.Context, string) (*backend.TokenResponse, error) {
	return nil, &backend.APIError{Status: http.StatusBadRequest, Message: "Invalid Refresh Token"}
}

func (f *fakeBackend) Logout(context.Context, string) error { return f.logoutErr }

func (f *fakeBackend) GetUser(context.Context, string) (*backend.User, error) {
	return &backend.User{ID: adaID}, nil
}

func (f *fakeBackend) SelectRows(_ context.Context, _, _, _, _ string, dest any) error {
	*(dest.(*[]json.RawMessage)) = nil
	return nil
}

func (f *fakeBackend) UpdateRows(_ context.Context, _, _, _, value string, patch map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updateIDs = append(f.updateIDs, value)
	f.updates = append(f.updates, patch)
	return nil
}

// fakeProfiles serves profile rows and counts reads per user.
type fakeProfiles struct {
	mu      sync.Mutex
	rows    map[string]profile.Profile
	missing int // reads answered with "no row" before rows are served
	err     error
	calls   []string
}

func (f *fakeProfiles) GetProfileByID(_ context.Context, userID string) (*profile.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, userID)
	if f.err != nil {
		return nil, f.err
	}
	if f.missing > 0 {
		f.missing--
		return nil, nil
	}
	p, ok := f.rows[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProfiles) callsFor(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == id {
			n++
		}
	}
	return n
}

type note struct {
	ok          bool
	title, desc string
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (r *recordingNotifier) Success(title, desc string) { r.add(note{true, title, desc}) }
func (r *recordingNotifier) Error(title, desc string)   { r.add(note{false, title, desc}) }

func (r *recordingNotifier) add(n note) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) all() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note(nil), r.notes...)
}

type harness struct {
	m        *Manager
	client   *auth.Client
	be       *fakeBackend
	profiles *fakeProfiles
	notes    *recordingNotifier
	nav      *router.Router
	store    *keychain.Manager
}

type harnessOpts struct {
	start string
	store *keychain.Manager
	init  bool
}

func newHarness(t *testing.T, o harnessOpts) *harness {
	t.Helper()
	if o.store == nil {
		o.store = keychain.NewManagerWithRing(keyring.NewArrayKeyring(nil))
	}
	h := &harness{
		be: &fakeBackend{},
		profiles: &fakeProfiles{rows: map[string]profile.Profile{
			adaID: {ID: adaID, Name: "Ada", Role: profile.RoleAlumni, Bio: "old bio"},
			joID:  {ID: joID, Name: "Jo", Role: profile.RoleStudent},
		}},
		notes: &recordingNotifier{},
		nav:   router.New(o.start),
		store: o.store,
	}
	h.client = auth.NewClient(h.be, auth.Options{PersistSession: true, Storage: o.store})
	t.Cleanup(h.client.Close)

	h.m = New(Deps{
		Provider:         h.client,
		Profiles:         h.profiles,
		Rows:             h.client,
		Notifier:         h.notes,
		Navigator:        h.nav,
		ProvisionTimeout: 200 * time.Millisecond,
		NewBackOff:       func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) },
	})
	t.Cleanup(h.m.Dispose)

	if o.init {
		require.NoError(t, h.m.Init(context.Background()))
		h.m.Wait()
	}
	return h
}

func strp(s string) *string { return &s }

func TestInitialStateIsLoading(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	st := h.m.Snapshot()
	assert.True(t, st.IsLoading)
	assert.Equal(t, PhaseLoading, st.Phase())
}

func TestInitWithoutSession(t *testing.T) {
	h := newHarness(t, harnessOpts{start: "/dashboard", init: true})

	st := h.m.Snapshot()
	assert.False(t, st.IsLoading)
	assert.Equal(t, PhaseUnauthenticated, st.Phase())
	assert.Nil(t, st.CurrentUser)
	assert.Equal(t, router.SignIn, h.nav.Path(), "private path redirects to sign-in")
}

func TestInitRestoresSessionAndProfile(t *testing.T) {
	store := keychain.NewManagerWithRing(keyring.NewArrayKeyring(nil))
	prev := newHarness(t, harnessOpts{store: store})
	_, err := prev.client.SignInWithPassword(context.Background(), "ada@uni.edu", "pw")
	require.NoError(t, err)

	h := newHarness(t, harnessOpts{store: store, start: "/", init: true})

	st := h.m.Snapshot()
	assert.Equal(t, PhaseAuthenticated, st.Phase())
	require.NotNil(t, st.Profile)
	assert.Equal(t, "Ada", st.Profile.Name)
	assert.Equal(t, router.Dashboard, h.nav.Path())
}

func TestInitTwice(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})
	assert.Error(t, h.m.Init(context.Background()))
}

func TestSignInSuccess(t *testing.T) {
	h := newHarness(t, harnessOpts{start: "/signin", init: true})

	h.m.SignIn(context.Background(), "ada@uni.edu", "pw")
	h.m.Wait()

	st := h.m.Snapshot()
	require.NotNil(t, st.CurrentUser)
	assert.Equal(t, adaID, st.CurrentUser.ID)
	require.NotNil(t, st.Session)
	assert.GreaterOrEqual(t, h.profiles.callsFor(adaID), 1, "profile fetch issued for the user")
	require.NotNil(t, st.Profile)
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Error)
	assert.Equal(t, PhaseAuthenticated, st.Phase())
	assert.Contains(t, h.notes.all(), note{true, "Welcome back!", "You've successfully signed in."})
	assert.Equal(t, router.Dashboard, h.nav.Path(), "signed-in user leaves the sign-in page")
}

func TestSignInWrongPassword(t *testing.T) {
	h := newHarness(t, harnessOpts{start: "/signin", init: true})
	h.be.signInErr = &backend.APIError{Status: http.StatusBadRequest, Code: "invalid_credentials", Message: "Invalid login credentials"}

	h.m.SignIn(context.Background(), "a@b.com", "wrong")
	h.m.Wait()

	st := h.m.Snapshot()
	assert.Equal(t, "Invalid login credentials", st.Error)
	assert.False(t, st.IsLoading)
	assert.Nil(t, st.CurrentUser)
	assert.Empty(t, h.profiles.calls, "no profile fetch on failure")
	assert.Equal(t, []note{{false, "Sign in failed", "Invalid login credentials"}}, h.notes.all())
	assert.Equal(t, router.SignIn, h.nav.Path())
}

func TestSignInClearsPreviousError(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})
	h.be.signInErr = &backend.APIError{Status: http.StatusBadRequest, Message: "Invalid login credentials"}
	h.m.SignIn(context.Background(), "a@b.com", "wrong")
	h.be.signInErr = nil
	h.m.SignIn(context.Background(), "a@b.com", "right")
	h.m.Wait()

	assert.Empty(t, h.m.Snapshot().Error)
}

func TestSignInErrorWithoutMessageUsesFallback(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})
	h.be.signInErr = &backend.APIError{Status: http.StatusInternalServerError}

	h.m.SignIn(context.Background(), "a@b.com", "pw")
	h.m.Wait()

	assert.Equal(t, "Failed to sign in", h.m.Snapshot().Error)
	assert.Equal(t, []note{{false, "Sign in failed", "An error occurred while signing in"}}, h.notes.all())
}

func TestListenerFetchesProfileOnNextTick(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})

	// Sign in through the client directly: only the listener reacts.
	_, err := h.client.SignInWithPassword(context.Background(), "ada@uni.edu", "pw")
	require.NoError(t, err)
	h.m.Wait()

	st := h.m.Snapshot()
	require.NotNil(t, st.Profile)
	assert.Equal(t, adaID, st.Profile.ID)
	assert.Equal(t, 1, h.profiles.callsFor(adaID))
}

func TestSignOutSuccess(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})
	h.m.SignIn(context.Background(), "ada@uni.edu", "pw")
	h.m.Wait()
	require.Equal(t, router.Dashboard, h.nav.Path())

	h.m.SignOut(context.Background())
	h.m.Wait()

	st := h.m.Snapshot()
	assert.Nil(t, st.CurrentUser)
	assert.Nil(t, st.Profile)
	assert.Nil(t, st.Session)
	assert.Equal(t, PhaseUnauthenticated, st.Phase())
	assert.Equal(t, router.SignIn, h.nav.Path())
	assert.Contains(t, h.nav.History(), router.SignIn)
	assert.Contains(t, h.notes.all(), note{true, "Signed out", "You've been successfully signed out."})

	data, err := h.store.LoadSession()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSignOutFailureKeepsState(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})
	h.m.SignIn(context.Background(), "ada@uni.edu", "pw")
	h.m.Wait()
	before := h.m.Snapshot()

	h.be.logoutErr = errors.New("network unreachable")
	h.m.SignOut(context.Background())
	h.m.Wait()

	after := h.m.Snapshot()
	assert.Equal(t, before.CurrentUser, after.CurrentUser)
	assert.Equal(t, before.Profile, after.Profile)
	assert.Equal(t, router.Dashboard, h.nav.Path())
	notes := h.notes.all()
	assert.Equal(t, note{false, "Error signing out", "network unreachable"}, notes[len(notes)-1])
}

func TestUpdateProfileWithoutUser(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})
	before := h.m.Snapshot()

	h.m.UpdateProfile(context.Background(), profile.Patch{Name: strp("X")})
	h.m.Wait()

	assert.Empty(t, h.be.updates, "no remote call")
	assert.Equal(t, before, h.m.Snapshot())
	assert.Empty(t, h.notes.all())
}

func TestUpdateProfileMergesOnlySuppliedKeys(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})
	h.m.SignIn(context.Background(), "ada@uni.edu", "pw")
	h.m.Wait()

	h.m.UpdateProfile(context.Background(), profile.Patch{Bio: strp("new bio")})
	h.m.Wait()

	require.Len(t, h.be.updates, 1)
	assert.Equal(t, map[string]any{"bio": "new bio"}, h.be.updates[0])
	assert.Equal(t, []string{adaID}, h.be.updateIDs)

	p := h.m.Snapshot().Profile
	require.NotNil(t, p)
	assert.Equal(t, "new bio", p.Bio)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, profile.RoleAlumni, p.Role)
	assert.Contains(t, h.notes.all(), note{true, "Profile updated", "Your profile has been successfully updated."})
}

func TestUpdateProfileFailureKeepsCache(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})
	h.m.SignIn(context.Background(), "ada@uni.edu", "pw")
	h.m.Wait()

	h.be.updateErr = &backend.APIError{Status: http.StatusForbidden, Message: "permission denied for table profiles"}
	h.m.UpdateProfile(context.Background(), profile.Patch{Name: strp("Eve")})
	h.m.Wait()

	assert.Equal(t, "Ada", h.m.Snapshot().Profile.Name)
	notes := h.notes.all()
	assert.Equal(t, note{false, "Error updating profile", "permission denied for table profiles"}, notes[len(notes)-1])
}

func TestRefreshProfile(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})
	h.m.RefreshProfile(context.Background())
	assert.Empty(t, h.profiles.calls, "no-op when signed out")

	h.m.SignIn(context.Background(), "ada@uni.edu", "pw")
	h.m.Wait()
	n := h.profiles.callsFor(adaID)

	h.profiles.mu.Lock()
	h.profiles.rows[adaID] = profile.Profile{ID: adaID, Name: "Ada L.", Role: profile.RoleAlumni}
	h.profiles.mu.Unlock()

	h.m.RefreshProfile(context.Background())
	h.m.Wait()
	assert.Equal(t, n+1, h.profiles.callsFor(adaID))
	assert.Equal(t, "Ada L.", h.m.Snapshot().Profile.Name)
}

func TestProfileFetchFailureStaysPending(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})
	h.profiles.err = errors.New("relation \"profiles\" does not exist")

	h.m.SignIn(context.Background(), "ada@uni.edu", "pw")
	h.m.Wait()

	st := h.m.Snapshot()
	assert.Equal(t, PhasePendingProfile, st.Phase())
	assert.Empty(t, st.Error, "profile fetch failures are not surfaced")
	assert.Equal(t, []note{{true, "Welcome back!", "You've successfully signed in."}}, h.notes.all())
}

func TestSignUpFetchesProfileOnce(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})

	h.m.SignUp(context.Background(), "Jo", "jo@x.com", "pw", profile.RoleStudent)
	h.m.Wait()

	assert.Equal(t, 1, h.profiles.callsFor(joID))
	require.Len(t, h.be.signUps, 1)
	assert.Equal(t, map[string]any{"name": "Jo", "role": "student"}, h.be.signUps[0])
	st := h.m.Snapshot()
	assert.False(t, st.IsLoading)
	assert.Nil(t, st.Profile, "no profile without a signed-in user")
	assert.Contains(t, h.notes.all(), note{true, "Account created!", "Your account has been successfully created."})
}

func TestSignUpPollsUntilProvisioned(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})
	h.be.signUpAuto = true
	h.profiles.missing = 3

	h.m.SignUp(context.Background(), "Jo", "jo@x.com", "pw", profile.RoleStudent)
	h.m.Wait()

	st := h.m.Snapshot()
	require.NotNil(t, st.Profile)
	assert.Equal(t, joID, st.Profile.ID)
	assert.Equal(t, PhaseAuthenticated, st.Phase())
	assert.GreaterOrEqual(t, h.profiles.callsFor(joID), 4)
}

func TestSignUpProvisionTimeout(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})
	h.be.signUpAuto = true
	h.profiles.missing = 1 << 30

	h.m.SignUp(context.Background(), "Jo", "jo@x.com", "pw", profile.RoleStudent)
	h.m.Wait()

	st := h.m.Snapshot()
	assert.Equal(t, PhasePendingProfile, st.Phase())
	assert.Empty(t, st.Error)
}

func TestSignUpFailure(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})
	h.be.signUpErr = &backend.APIError{Status: http.StatusUnprocessableEntity, Message: "User already registered"}

	h.m.SignUp(context.Background(), "Jo", "jo@x.com", "pw", profile.RoleStudent)
	h.m.Wait()

	st := h.m.Snapshot()
	assert.Equal(t, "User already registered", st.Error)
	assert.False(t, st.IsLoading)
	assert.Empty(t, h.profiles.calls)
	assert.Equal(t, []note{{false, "Sign up failed", "User already registered"}}, h.notes.all())
}

func TestSignUpRejectsUnknownRole(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})

	h.m.SignUp(context.Background(), "Jo", "jo@x.com", "pw", profile.Role("dean"))
	h.m.Wait()

	assert.Empty(t, h.be.signUps, "provider not called")
	assert.Contains(t, h.m.Snapshot().Error, "dean")
}

func TestStaleProfileIsDropped(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})

	h.m.applyProfile(adaID, &profile.Profile{ID: adaID, Name: "Ada"})
	h.m.Wait()
	assert.Nil(t, h.m.Snapshot().Profile, "profile without a user")

	h.m.SignIn(context.Background(), "ada@uni.edu", "pw")
	h.m.Wait()
	h.m.applyProfile(joID, &profile.Profile{ID: joID, Name: "Jo"})
	h.m.Wait()
	assert.Equal(t, adaID, h.m.Snapshot().Profile.ID, "profile of another user ignored")
}

func TestUnauthenticatedPublicPathsAreNotRedirected(t *testing.T) {
	for _, p := range []string{router.Root, router.SignIn, router.SignUp} {
		t.Run(p, func(t *testing.T) {
			h := newHarness(t, harnessOpts{start: p, init: true})
			assert.Equal(t, p, h.nav.Path())
			assert.Empty(t, h.nav.History())
		})
	}
}

func TestWatchSeesTransitions(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	var mu sync.Mutex
	var phases []Phase
	stop := h.m.Watch(func(s State) {
		mu.Lock()
		phases = append(phases, s.Phase())
		mu.Unlock()
	})

	require.NoError(t, h.m.Init(context.Background()))
	h.m.SignIn(context.Background(), "ada@uni.edu", "pw")
	h.m.Wait()
	stop()
	h.m.SignOut(context.Background())
	h.m.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, phases)
	assert.Contains(t, phases, PhaseUnauthenticated)
	assert.Contains(t, phases, PhasePendingProfile)
	assert.Equal(t, PhaseAuthenticated, phases[len(phases)-1])
}

func TestWatchPhaseReportsEachChangeOnce(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	type change struct{ from, to Phase }
	var mu sync.Mutex
	var got []change
	h.m.WatchPhase(func(from, to Phase) {
		mu.Lock()
		got = append(got, change{from, to})
		mu.Unlock()
	})

	ctx := context.Background()
	require.NoError(t, h.m.Init(ctx))
	h.m.Wait()
	h.m.SignIn(ctx, "ada@uni.edu", "pw")
	h.m.Wait()
	h.m.SignOut(ctx)
	h.m.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []change{
		{PhaseLoading, PhaseUnauthenticated},
		{PhaseUnauthenticated, PhasePendingProfile},
		{PhasePendingProfile, PhaseAuthenticated},
		{PhaseAuthenticated, PhaseUnauthenticated},
	}, got)
}

func TestDisposeStopsListening(t *testing.T) {
	h := newHarness(t, harnessOpts{init: true})
	h.m.Dispose()
	h.m.Dispose()

	_, err := h.client.SignInWithPassword(context.Background(), "ada@uni.edu", "pw")
	require.NoError(t, err)

	assert.Nil(t, h.m.Snapshot().CurrentUser)
	assert.Error(t, h.m.Init(context.Background()))
}
