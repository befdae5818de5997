package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"pawtrades/internal/backend"

	"go.uber.org/zap"
)

// Gate holds the session state and decides which mutations are allowed.
// State changes come from Login, Logout, and out-of-band notifications pushed
// by the provider.
type Gate struct {
	provider Provider
	logger   *zap.Logger

	mu          sync.RWMutex
	state       State
	seq         uint64
	observers   map[int]func(State)
	nextObs     int
	unsubscribe func()
}

type GateOption func(*Gate)

func WithLogger(l *zap.Logger) GateOption {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGate creates a gate in the Anonymous state. A nil provider keeps the gate
// anonymous for its whole life.
func NewGate(p Provider, opts ...GateOption) *Gate {
	g := &Gate{
		provider:  p,
		logger:    zap.NewNop(),
		observers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start restores any existing session and begins listening for changes.
func (g *Gate) Start(ctx context.Context) error {
	if g.provider == nil {
		return nil
	}

	g.mu.Lock()
	if g.unsubscribe == nil {
		g.unsubscribe = g.provider.SubscribeSessionChanges(g.onChange)
	}
	seen := g.seq
	g.mu.Unlock()

	sess, err := g.provider.CurrentSession(ctx)
	if err != nil {
		g.logger.Warn("restoring session failed", zap.Error(err))
		return backend.Wrap("restore session", err)
	}
	g.apply(sess, g.unchangedSince(seen))
	return nil
}

// Close stops listening for session changes.
func (g *Gate) Close() {
	g.mu.Lock()
	unsub := g.unsubscribe
	g.unsubscribe = nil
	g.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Login signs in with creds. On failure the state is left untouched and the
// backend's message is returned verbatim.
func (g *Gate) Login(ctx context.Context, creds Credentials) error {
	if g.provider == nil {
		return ErrNoBackend
	}
	email := strings.TrimSpace(creds.Email)
	if email == "" || creds.Password == "" {
		return fmt.Errorf("email and password are required")
	}

	if err := g.provider.SignIn(ctx, email, creds.Password); err != nil {
		g.logger.Warn("sign in failed", zap.String("email", email), zap.Error(err))
		return backend.Wrap("sign in", err)
	}

	seen := g.lastSeq()
	sess, err := g.provider.CurrentSession(ctx)
	if err != nil {
		return backend.Wrap("sign in", err)
	}
	if sess == nil {
		sess = &Session{Subject: email}
	}
	g.apply(sess, g.unchangedSince(seen))
	g.logger.Info("signed in", zap.String("subject", sess.Subject))
	return nil
}

// Logout signs out. The gate becomes Anonymous even when the backend call
// fails; that failure is still returned.
func (g *Gate) Logout(ctx context.Context) error {
	if g.provider == nil {
		g.apply(nil, nil)
		return nil
	}

	err := g.provider.SignOut(ctx)
	g.apply(nil, nil)
	if err != nil {
		g.logger.Warn("sign out failed", zap.Error(err))
		return backend.Wrap("sign out", err)
	}
	g.logger.Info("signed out")
	return nil
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Gate) Authenticated() bool {
	return g.State().Status == Authenticated
}

func (g *Gate) Affordances() Affordances {
	return g.State().Affordances()
}

// Subscribe registers fn to be called after every state change.
func (g *Gate) Subscribe(fn func(State)) func() {
	g.mu.Lock()
	id := g.nextObs
	g.nextObs++
	g.observers[id] = fn
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.observers, id)
		g.mu.Unlock()
	}
}

// onChange applies a provider notification. A change older than one already
// applied is dropped.
func (g *Gate) onChange(ch SessionChange) {
	g.apply(ch.Session, func() bool {
		if ch.Seq == 0 {
			return true
		}
		if ch.Seq <= g.seq {
			g.logger.Debug("dropping stale session change", zap.Uint64("seq", ch.Seq), zap.Uint64("applied", g.seq))
			return false
		}
		g.seq = ch.Seq
		return true
	})
}

func (g *Gate) lastSeq() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.seq
}

// unchangedSince accepts only while no notification has been applied after
// seen. Called with g.mu held.
func (g *Gate) unchangedSince(seen uint64) func() bool {
	return func() bool { return g.seq == seen }
}

// apply installs the state derived from sess when accept (run under the lock)
// allows it, and notifies observers when the state actually changed.
func (g *Gate) apply(sess *Session, accept func() bool) {
	next := stateOf(sess)

	g.mu.Lock()
	if accept != nil && !accept() {
		g.mu.Unlock()
		return
	}
	changed := g.state != next
	g.state = next
	var fns []func(State)
	if changed {
		fns = make([]func(State), 0, len(g.observers))
		for _, fn := range g.observers {
			fns = append(fns, fn)
		}
	}
	g.mu.Unlock()

	if changed {
		g.logger.Debug("session state changed", zap.Stringer("status", next.Status), zap.String("subject", next.Subject))
	}
	for _, fn := range fns {
		fn(next)
	}
}
