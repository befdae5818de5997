// Package auth tracks whether the current visitor is the signed-in owner.
package auth

import (
	"context"
	"errors"
	"time"
)

var ErrNoBackend = errors.New("no backend configured (set SUPABASE_URL and SUPABASE_ANON_KEY)")

// Session is an authenticated backend session.
type Session struct {
	Subject      string    `yaml:"subject"`
	UserID       string    `yaml:"user_id"`
	AccessToken  string    `yaml:"access_token"`
	RefreshToken string    `yaml:"refresh_token"`
	ExpiresAt    time.Time `yaml:"expires_at"`
}

// Expired reports whether the access token is no longer valid at now. A zero
// ExpiresAt never expires.
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type Credentials struct {
	Email    string
	Password string
}

// Provider is the auth side of the remote collaborator.
type Provider interface {
	// CurrentSession returns the existing session, or nil when signed out.
	CurrentSession(ctx context.Context) (*Session, error)
	SignIn(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	// SubscribeSessionChanges calls fn whenever the session changes outside
	// of the caller's control.
	SubscribeSessionChanges(fn func(SessionChange)) (unsubscribe func())
}

// SessionChange is one session transition published by a Provider. Seq grows
// with every change the provider makes; a zero Seq is unordered. A nil
// Session means signed out.
type SessionChange struct {
	Session *Session
	Seq     uint64
}

type Status int

const (
	Anonymous Status = iota
	Authenticated
)

func (s Status) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// State is what the gate currently knows about the visitor.
type State struct {
	Status  Status
	Subject string
}

func stateOf(s *Session) State {
	if s == nil {
		return State{Status: Anonymous}
	}
	return State{Status: Authenticated, Subject: s.Subject}
}

// Affordances lists the presentation actions available in a state.
type Affordances struct {
	CanAdd     bool
	CanRemove  bool
	ShowLogin  bool
	ShowLogout bool
}

func (s State) Affordances() Affordances {
	authed := s.Status == Authenticated
	return Affordances{
		CanAdd:     authed,
		CanRemove:  authed,
		ShowLogin:  !authed,
		ShowLogout: authed,
	}
}
