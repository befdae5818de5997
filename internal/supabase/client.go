// Package supabase talks to a hosted Supabase project: items live in a
// PostgREST table and the owner signs in through GoTrue.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"pawtrades/internal/auth"
	"pawtrades/internal/backend"
	"pawtrades/internal/catalog"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/postgrest-go"
	"go.uber.org/zap"
)

const (
	DefaultTable  = "items"
	DefaultSchema = "public"

	defaultRefreshMargin = time.Minute
	defaultPollInterval  = time.Minute
	defaultRetryInterval = 15 * time.Second
)

var ErrNotConfigured = errors.New("supabase url and anon key are required")

type Config struct {
	URL     string
	AnonKey string
	Table   string
	Schema  string
}

// Enabled reports whether both connection values are present.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.URL) != "" && strings.TrimSpace(c.AnonKey) != ""
}

// SessionStore persists the session between runs.
type SessionStore interface {
	Load() (*auth.Session, error)
	Save(s *auth.Session) error
	Clear() error
}

// Client implements catalog.Backend and auth.Provider.
type Client struct {
	cfg     Config
	restURL string
	gotrue  gotrue.Client
	store   SessionStore
	logger  *zap.Logger
	now     func() time.Time

	refreshMargin time.Duration
	pollInterval  time.Duration
	retryInterval time.Duration

	mu      sync.Mutex
	session *auth.Session
	loaded  bool
	subs    map[int]func(auth.SessionChange)
	seq     uint64
	nextSub int
}

type Option func(*Client)

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSessionStore persists sessions so a sign-in survives restarts.
func WithSessionStore(s SessionStore) Option {
	return func(c *Client) {
		c.store = s
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithRefreshMargin sets how long before expiry the access token is renewed.
func WithRefreshMargin(d time.Duration) Option {
	return func(c *Client) {
		c.refreshMargin = d
	}
}

// WithPollInterval sets how often AutoRefresh looks for a session while
// signed out, and how long it waits after a failed refresh.
func WithPollInterval(poll, retry time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = poll
		c.retryInterval = retry
	}
}

func New(cfg Config, opts ...Option) (*Client, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid supabase url %q", cfg.URL)
	}
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.Schema == "" {
		cfg.Schema = DefaultSchema
	}

	c := &Client{
		cfg:           cfg,
		restURL:       base + "/rest/v1",
		gotrue:        gotrue.New("", cfg.AnonKey).WithCustomGoTrueURL(base + "/auth/v1"),
		logger:        zap.NewNop(),
		now:           time.Now,
		refreshMargin: defaultRefreshMargin,
		pollInterval:  defaultPollInterval,
		retryInterval: defaultRetryInterval,
		subs:          make(map[int]func(auth.SessionChange)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// rest builds a PostgREST client carrying the current bearer token. The
// library keeps headers on the client, so one is built per request.
func (c *Client) rest() *postgrest.Client {
	token := c.cfg.AnonKey
	c.mu.Lock()
	if sess := c.loadLocked(); sess != nil && sess.AccessToken != "" {
		token = sess.AccessToken
	}
	c.mu.Unlock()

	return postgrest.NewClient(c.restURL, c.cfg.Schema, map[string]string{
		"apikey":        c.cfg.AnonKey,
		"Authorization": "Bearer " + token,
	})
}

func (c *Client) ListItems(ctx context.Context) ([]catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, canceled("list items", err)
	}

	var rows []catalog.Item
	_, err := c.rest().From(c.cfg.Table).
		Select("*", "", false).
		Order("name", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		c.logger.Warn("listing items failed", zap.Error(err))
		return nil, restError("list items", err)
	}
	c.logger.Debug("listed items", zap.Int("count", len(rows)))
	if rows == nil {
		rows = []catalog.Item{}
	}
	return rows, nil
}

func (c *Client) CreateItem(ctx context.Context, item catalog.Item) (catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Item{}, canceled("create item", err)
	}
	item.ID = ""

	var rows []catalog.Item
	_, err := c.rest().From(c.cfg.Table).
		Insert(item, false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		c.logger.Warn("creating item failed", zap.String("name", item.Name), zap.Error(err))
		return catalog.Item{}, restError("create item", err)
	}
	if len(rows) == 0 {
		return catalog.Item{}, &backend.Error{Op: "create item", Message: "no row returned", Err: backend.ErrUnavailable}
	}
	c.logger.Debug("created item", zap.String("id", rows[0].ID))
	return rows[0], nil
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return canceled("delete item", err)
	}

	var rows []catalog.Item
	_, err := c.rest().From(c.cfg.Table).
		Delete("representation", "").
		Eq("id", id).
		ExecuteTo(&rows)
	if err != nil {
		c.logger.Warn("deleting item failed", zap.String("id", id), zap.Error(err))
		return restError("delete item", err)
	}
	// Row-level security hides rows the caller may not delete, so an empty
	// result covers both "gone" and "not yours".
	if len(rows) == 0 {
		return &backend.Error{Op: "delete item", Message: fmt.Sprintf("no item with id %s", id), Err: backend.ErrNotFound}
	}
	c.logger.Debug("deleted item", zap.String("id", id))
	return nil
}

// CurrentSession returns the persisted session, renewing it first when it is
// about to expire. A refresh token the server rejects signs the owner out.
func (c *Client) CurrentSession(ctx context.Context) (*auth.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, canceled("session", err)
	}

	c.mu.Lock()
	sess := c.loadLocked()
	if sess == nil || !c.dueLocked(sess) {
		c.mu.Unlock()
		return copySession(sess), nil
	}

	next, err := c.refreshLocked(sess)
	seq := c.seq
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	c.publish(next, seq)
	return copySession(next), nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) error {
	if err := ctx.Err(); err != nil {
		return canceled("sign in", err)
	}

	resp, err := c.gotrue.SignInWithEmailPassword(email, password)
	if err != nil {
		return authError("sign in", err)
	}
	next := c.fromToken(resp, email)

	c.mu.Lock()
	c.loaded = true
	seq := c.setLocked(next)
	c.mu.Unlock()

	c.publish(next, seq)
	return nil
}

// SignOut forgets the local session even when the server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	sess := c.loadLocked()
	c.loaded = true
	seq := c.setLocked(nil)
	c.mu.Unlock()

	c.publish(nil, seq)

	if sess == nil || sess.AccessToken == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return canceled("sign out", err)
	}
	if err := c.gotrue.WithToken(sess.AccessToken).Logout(); err != nil {
		return authError("sign out", err)
	}
	return nil
}

func (c *Client) SubscribeSessionChanges(fn func(auth.SessionChange)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// AutoRefresh keeps the access token fresh until ctx is done. Each renewal,
// or a rejected refresh token, is published to session subscribers.
// Consecutive attempts are at least the retry interval apart, even when the
// server hands out tokens that are already inside the refresh margin.
func (c *Client) AutoRefresh(ctx context.Context) {
	var floor time.Duration
	for {
		if wait := max(c.untilRefresh(), floor); wait > 0 {
			if !sleep(ctx, wait) {
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		if _, err := c.CurrentSession(ctx); err != nil {
			c.logger.Warn("refreshing session failed", zap.Error(err))
		}
		floor = c.retryInterval
	}
}

func (c *Client) untilRefresh() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess := c.loadLocked()
	if sess == nil || sess.ExpiresAt.IsZero() {
		return c.pollInterval
	}
	return sess.ExpiresAt.Add(-c.refreshMargin).Sub(c.now())
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Client) loadLocked() *auth.Session {
	if c.loaded {
		return c.session
	}
	c.loaded = true
	if c.store == nil {
		return nil
	}
	sess, err := c.store.Load()
	if err != nil {
		c.logger.Warn("reading stored session failed", zap.Error(err))
		return nil
	}
	c.session = sess
	return sess
}

func (c *Client) dueLocked(sess *auth.Session) bool {
	if sess.ExpiresAt.IsZero() {
		return false
	}
	return !c.now().Before(sess.ExpiresAt.Add(-c.refreshMargin))
}

// refreshLocked renews sess. When the server rejects the refresh token the
// session is cleared and (nil, nil) is returned.
func (c *Client) refreshLocked(sess *auth.Session) (*auth.Session, error) {
	if sess.RefreshToken == "" {
		c.setLocked(nil)
		return nil, nil
	}

	resp, err := c.gotrue.RefreshToken(sess.RefreshToken)
	if err != nil {
		berr := authError("refresh session", err)
		if errors.Is(berr, backend.ErrUnauthorized) {
			c.logger.Info("session refresh rejected, signing out", zap.Error(err))
			c.setLocked(nil)
			return nil, nil
		}
		return nil, berr
	}

	next := c.fromToken(resp, sess.Subject)
	c.setLocked(next)
	c.logger.Debug("session refreshed", zap.Time("expires_at", next.ExpiresAt))
	return next, nil
}

// setLocked installs sess and returns the sequence number of the change.
func (c *Client) setLocked(sess *auth.Session) uint64 {
	c.session = sess
	c.seq++
	if c.store == nil {
		return c.seq
	}
	var err error
	if sess == nil {
		err = c.store.Clear()
	} else {
		err = c.store.Save(sess)
	}
	if err != nil {
		c.logger.Warn("persisting session failed", zap.Error(err))
	}
	return c.seq
}

func (c *Client) fromToken(resp *types.TokenResponse, fallbackSubject string) *auth.Session {
	sess := &auth.Session{
		Subject:      resp.User.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if sess.Subject == "" {
		sess.Subject = fallbackSubject
	}
	if resp.User.ID != uuid.Nil {
		sess.UserID = resp.User.ID.String()
	}
	switch {
	case resp.ExpiresAt > 0:
		sess.ExpiresAt = time.Unix(resp.ExpiresAt, 0).UTC()
	case resp.ExpiresIn > 0:
		sess.ExpiresAt = c.now().Add(time.Duration(resp.ExpiresIn) * time.Second).UTC()
	}
	return sess
}

// publish delivers change seq unless a newer one has already been made; that
// one is delivered by whoever made it.
func (c *Client) publish(sess *auth.Session, seq uint64) {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("skipping superseded session change", zap.Uint64("seq", seq))
		return
	}
	fns := make([]func(auth.SessionChange), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(auth.SessionChange{Session: copySession(sess), Seq: seq})
	}
}

func copySession(s *auth.Session) *auth.Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}
