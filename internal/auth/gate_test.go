package auth_test

import (
	"context"
	"errors"
	"testing"

	"pawtrades/internal/auth"
	"pawtrades/internal/backend"
	"pawtrades/internal/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const (
	ownerEmail    = "owner@example.com"
	ownerPassword = "hunter2"
)

func startedGate(t *testing.T, b *memory.Backend, opts ...auth.GateOption) *auth.Gate {
	t.Helper()
	g := auth.NewGate(b, opts...)
	require.NoError(t, g.Start(context.Background()))
	t.Cleanup(g.Close)
	return g
}

func TestGate_StartsAnonymous(t *testing.T) {
	g := startedGate(t, memory.New())

	assert.Equal(t, auth.State{Status: auth.Anonymous}, g.State())
	assert.False(t, g.Authenticated())
}

func TestGate_RestoresExistingSession(t *testing.T) {
	b := memory.New().WithAccount(ownerEmail, ownerPassword)
	require.NoError(t, b.SignIn(context.Background(), ownerEmail, ownerPassword))

	g := startedGate(t, b)

	assert.Equal(t, auth.State{Status: auth.Authenticated, Subject: ownerEmail}, g.State())
}

func TestGate_StartFailure(t *testing.T) {
	b := memory.New()
	b.Fail(memory.OpSession, backend.ErrUnavailable)
	g := auth.NewGate(b)
	defer g.Close()

	err := g.Start(context.Background())

	assert.ErrorIs(t, err, backend.ErrUnavailable)
	assert.False(t, g.Authenticated())
}

func TestGate_Login(t *testing.T) {
	t.Run("success authenticates", func(t *testing.T) {
		g := startedGate(t, memory.New().WithAccount(ownerEmail, ownerPassword))

		err := g.Login(context.Background(), auth.Credentials{Email: ownerEmail, Password: ownerPassword})

		require.NoError(t, err)
		assert.Equal(t, auth.State{Status: auth.Authenticated, Subject: ownerEmail}, g.State())
	})

	t.Run("bad password stays anonymous with backend message", func(t *testing.T) {
		g := startedGate(t, memory.New().WithAccount(ownerEmail, ownerPassword))

		err := g.Login(context.Background(), auth.Credentials{Email: ownerEmail, Password: "wrong"})

		require.Error(t, err)
		assert.Equal(t, "Invalid login credentials", backend.Message(err))
		var be *backend.Error
		assert.ErrorAs(t, err, &be)
		assert.Equal(t, auth.State{Status: auth.Anonymous}, g.State())
	})

	t.Run("missing fields make no backend call", func(t *testing.T) {
		b := memory.New()
		g := startedGate(t, b)

		err := g.Login(context.Background(), auth.Credentials{Email: "  "})

		require.Error(t, err)
		assert.Zero(t, b.Calls(memory.OpSignIn))
	})

	t.Run("failed login keeps an existing session", func(t *testing.T) {
		b := memory.New().WithAccount(ownerEmail, ownerPassword)
		g := startedGate(t, b)
		require.NoError(t, g.Login(context.Background(), auth.Credentials{Email: ownerEmail, Password: ownerPassword}))

		err := g.Login(context.Background(), auth.Credentials{Email: ownerEmail, Password: "nope"})

		require.Error(t, err)
		assert.True(t, g.Authenticated())
	})

	t.Run("out-of-band session after a failed login authenticates", func(t *testing.T) {
		b := memory.New().WithAccount(ownerEmail, ownerPassword)
		g := startedGate(t, b)
		require.Error(t, g.Login(context.Background(), auth.Credentials{Email: ownerEmail, Password: "nope"}))

		b.PushSession(ownerEmail)

		assert.Equal(t, auth.State{Status: auth.Authenticated, Subject: ownerEmail}, g.State())
	})
}

func TestGate_Logout(t *testing.T) {
	t.Run("becomes anonymous", func(t *testing.T) {
		b := memory.New().WithAccount(ownerEmail, ownerPassword)
		g := startedGate(t, b)
		require.NoError(t, g.Login(context.Background(), auth.Credentials{Email: ownerEmail, Password: ownerPassword}))

		require.NoError(t, g.Logout(context.Background()))

		assert.False(t, g.Authenticated())
	})

	t.Run("backend error still becomes anonymous", func(t *testing.T) {
		b := memory.New().WithAccount(ownerEmail, ownerPassword)
		g := startedGate(t, b)
		require.NoError(t, g.Login(context.Background(), auth.Credentials{Email: ownerEmail, Password: ownerPassword}))
		b.Fail(memory.OpSignOut, errors.New("session_not_found"))

		err := g.Logout(context.Background())

		require.Error(t, err)
		assert.Equal(t, "session_not_found", backend.Message(err))
		assert.False(t, g.Authenticated())
	})
}

func TestGate_OutOfBandChanges(t *testing.T) {
	b := memory.New()
	g := startedGate(t, b)

	var seen []auth.State
	unsubscribe := g.Subscribe(func(s auth.State) { seen = append(seen, s) })
	defer unsubscribe()

	b.PushSession("other-window@example.com")
	assert.Equal(t, auth.State{Status: auth.Authenticated, Subject: "other-window@example.com"}, g.State())

	// Same state again is not a change.
	b.PushSession("other-window@example.com")

	b.PushSession("")
	assert.False(t, g.Authenticated())

	assert.Equal(t, []auth.State{
		{Status: auth.Authenticated, Subject: "other-window@example.com"},
		{Status: auth.Anonymous},
	}, seen)
}

func TestGate_CloseUnsubscribes(t *testing.T) {
	b := memory.New()
	g := auth.NewGate(b)
	require.NoError(t, g.Start(context.Background()))
	require.Equal(t, 1, b.Subscribers())

	g.Close()

	assert.Zero(t, b.Subscribers())
	b.PushSession("late@example.com")
	assert.False(t, g.Authenticated())
}

func TestGate_WithoutProvider(t *testing.T) {
	g := auth.NewGate(nil)
	require.NoError(t, g.Start(context.Background()))

	err := g.Login(context.Background(), auth.Credentials{Email: ownerEmail, Password: ownerPassword})

	assert.ErrorIs(t, err, auth.ErrNoBackend)
	assert.False(t, g.Authenticated())
	assert.NoError(t, g.Logout(context.Background()))
}

func TestAffordances(t *testing.T) {
	anon := auth.State{Status: auth.Anonymous}.Affordances()
	assert.Equal(t, auth.Affordances{ShowLogin: true}, anon)

	owner := auth.State{Status: auth.Authenticated, Subject: ownerEmail}.Affordances()
	assert.Equal(t, auth.Affordances{CanAdd: true, CanRemove: true, ShowLogout: true}, owner)
}

func TestGate_LogsFailedLogin(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	g := startedGate(t, memory.New(), auth.WithLogger(zap.New(core)))

	_ = g.Login(context.Background(), auth.Credentials{Email: ownerEmail, Password: "x"})

	entries := logs.FilterMessage("sign in failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, ownerEmail, entries[0].ContextMap()["email"])
}

// scriptedProvider lets a test decide exactly which changes reach the gate
// and in what order.
type scriptedProvider struct {
	current   *auth.Session
	onCurrent func()
	notify    func(auth.SessionChange)
}

func (p *scriptedProvider) CurrentSession(context.Context) (*auth.Session, error) {
	if p.onCurrent != nil {
		p.onCurrent()
	}
	return p.current, nil
}

func (p *scriptedProvider) SignIn(context.Context, string, string) error { return nil }
func (p *scriptedProvider) SignOut(context.Context) error                { return nil }

func (p *scriptedProvider) SubscribeSessionChanges(fn func(auth.SessionChange)) func() {
	p.notify = fn
	return func() { p.notify = nil }
}

func TestGate_DropsStaleChanges(t *testing.T) {
	p := &scriptedProvider{}
	g := auth.NewGate(p)
	require.NoError(t, g.Start(context.Background()))
	defer g.Close()

	p.notify(auth.SessionChange{Session: nil, Seq: 3})
	p.notify(auth.SessionChange{Session: &auth.Session{Subject: ownerEmail}, Seq: 2})

	assert.False(t, g.Authenticated())

	p.notify(auth.SessionChange{Session: &auth.Session{Subject: ownerEmail}, Seq: 4})
	assert.True(t, g.Authenticated())
}

func TestGate_StartKeepsNewerNotification(t *testing.T) {
	p := &scriptedProvider{current: &auth.Session{Subject: ownerEmail}}
	p.onCurrent = func() {
		p.notify(auth.SessionChange{Session: nil, Seq: 1})
	}
	g := auth.NewGate(p)
	defer g.Close()

	require.NoError(t, g.Start(context.Background()))

	assert.False(t, g.Authenticated())
}

func TestGate_LogoutBeatsLateRefresh(t *testing.T) {
	p := &scriptedProvider{}
	g := auth.NewGate(p)
	require.NoError(t, g.Start(context.Background()))
	defer g.Close()
	p.notify(auth.SessionChange{Session: &auth.Session{Subject: ownerEmail}, Seq: 1})
	require.True(t, g.Authenticated())

	// A refresh produced seq 2 but its delivery is overtaken by the sign-out.
	refreshed := auth.SessionChange{Session: &auth.Session{Subject: ownerEmail, AccessToken: "new"}, Seq: 2}
	p.notify(auth.SessionChange{Session: nil, Seq: 3})
	require.NoError(t, g.Logout(context.Background()))
	p.notify(refreshed)

	assert.Equal(t, auth.State{Status: auth.Anonymous}, g.State())
}
