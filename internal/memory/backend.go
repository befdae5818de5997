// Package memory is an in-process stand-in for the remote backend. It keeps
// items and accounts in maps and can be told to fail specific operations.
package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"pawtrades/internal/auth"
	"pawtrades/internal/backend"
	"pawtrades/internal/catalog"

	"github.com/google/uuid"
)

type Op string

const (
	OpList    Op = "list"
	OpCreate  Op = "create"
	OpDelete  Op = "delete"
	OpSignIn  Op = "sign_in"
	OpSignOut Op = "sign_out"
	OpSession Op = "session"
)

var ErrInvalidCredentials = errors.New("Invalid login credentials")

// Backend implements catalog.Backend and auth.Provider.
type Backend struct {
	mu       sync.Mutex
	items    map[string]catalog.Item
	accounts map[string]string
	session  *auth.Session
	failures map[Op]error
	calls    map[Op]int
	subs     map[int]func(auth.SessionChange)
	seq      uint64
	nextSub  int
	now      func() time.Time
}

func New() *Backend {
	return &Backend{
		items:    make(map[string]catalog.Item),
		accounts: make(map[string]string),
		failures: make(map[Op]error),
		calls:    make(map[Op]int),
		subs:     make(map[int]func(auth.SessionChange)),
		now:      time.Now,
	}
}

// Seed stores items as they are, keeping their IDs. Items without an ID get one.
func (b *Backend) Seed(items ...catalog.Item) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		b.items[it.ID] = it.Clone()
	}
	return b
}

// WithAccount registers an owner account.
func (b *Backend) WithAccount(email, password string) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[strings.ToLower(email)] = password
	return b
}

// Fail makes every call to op return err until Fail(op, nil) is called.
func (b *Backend) Fail(op Op, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.failures, op)
		return
	}
	b.failures[op] = err
}

// Calls reports how many times op was invoked.
func (b *Backend) Calls(op Op) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

func (b *Backend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

func (b *Backend) enter(ctx context.Context, op Op) error {
	b.calls[op]++
	if err := ctx.Err(); err != nil {
		return &backend.Error{Op: string(op), Message: err.Error(), Err: backend.ErrUnavailable}
	}
	if err := b.failures[op]; err != nil {
		return &backend.Error{Op: string(op), Message: err.Error(), Err: err}
	}
	return nil
}

func (b *Backend) ListItems(ctx context.Context) ([]catalog.Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(ctx, OpList); err != nil {
		return nil, err
	}

	out := make([]catalog.Item, 0, len(b.items))
	for _, it := range b.items {
		out = append(out, it.Clone())
	}
	slices.SortStableFunc(out, func(x, y catalog.Item) int {
		if c := strings.Compare(x.Name, y.Name); c != 0 {
			return c
		}
		return strings.Compare(x.ID, y.ID)
	})
	return out, nil
}

func (b *Backend) CreateItem(ctx context.Context, item catalog.Item) (catalog.Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(ctx, OpCreate); err != nil {
		return catalog.Item{}, err
	}
	if b.session == nil {
		return catalog.Item{}, &backend.Error{Op: string(OpCreate), Message: "new row violates row-level security policy", Err: backend.ErrUnauthorized}
	}

	item.ID = uuid.NewString()
	b.items[item.ID] = item.Clone()
	return item.Clone(), nil
}

func (b *Backend) DeleteItem(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(ctx, OpDelete); err != nil {
		return err
	}
	if b.session == nil {
		return &backend.Error{Op: string(OpDelete), Message: "permission denied", Err: backend.ErrUnauthorized}
	}
	if _, ok := b.items[id]; !ok {
		return &backend.Error{Op: string(OpDelete), Message: fmt.Sprintf("no item with id %s", id), Err: backend.ErrNotFound}
	}
	delete(b.items, id)
	return nil
}

func (b *Backend) CurrentSession(ctx context.Context) (*auth.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(ctx, OpSession); err != nil {
		return nil, err
	}
	if b.session == nil {
		return nil, nil
	}
	s := *b.session
	return &s, nil
}

func (b *Backend) SignIn(ctx context.Context, email, password string) error {
	b.mu.Lock()
	if err := b.enter(ctx, OpSignIn); err != nil {
		b.mu.Unlock()
		return err
	}
	want, ok := b.accounts[strings.ToLower(email)]
	if !ok || want != password {
		b.mu.Unlock()
		return &backend.Error{Op: string(OpSignIn), Message: ErrInvalidCredentials.Error(), Err: ErrInvalidCredentials}
	}
	sess := b.newSession(email)
	seq := b.setLocked(sess)
	b.mu.Unlock()

	b.publish(sess, seq)
	return nil
}

func (b *Backend) SignOut(ctx context.Context) error {
	b.mu.Lock()
	err := b.enter(ctx, OpSignOut)
	seq := b.setLocked(nil)
	b.mu.Unlock()

	b.publish(nil, seq)
	return err
}

func (b *Backend) SubscribeSessionChanges(fn func(auth.SessionChange)) func() {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Subscribers reports the number of live session subscriptions.
func (b *Backend) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// PushSession simulates an out-of-band session change such as a token refresh
// in another window (non-empty subject) or an external sign-out (empty subject).
func (b *Backend) PushSession(subject string) {
	b.mu.Lock()
	var sess *auth.Session
	if subject != "" {
		sess = b.newSession(subject)
	}
	seq := b.setLocked(sess)
	b.mu.Unlock()

	b.publish(sess, seq)
}

func (b *Backend) newSession(subject string) *auth.Session {
	return &auth.Session{
		Subject:      subject,
		UserID:       uuid.NewString(),
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		ExpiresAt:    b.now().Add(time.Hour),
	}
}

func (b *Backend) setLocked(sess *auth.Session) uint64 {
	b.session = sess
	b.seq++
	return b.seq
}

func (b *Backend) publish(sess *auth.Session, seq uint64) {
	b.mu.Lock()
	fns := make([]func(auth.SessionChange), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		var cp *auth.Session
		if sess != nil {
			s := *sess
			cp = &s
		}
		fn(auth.SessionChange{Session: cp, Seq: seq})
	}
}
