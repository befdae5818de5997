package catalog

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Store owns the in-memory item list. It is loaded wholesale from the backend
// and patched locally after each successful insert or remove; it never
// re-fetches to reconcile.
type Store struct {
	backend Backend
	auth    Authorizer
	logger  *zap.Logger
	demo    []Item

	// mutMu serializes Load, Insert and Remove, including their backend calls.
	mutMu sync.Mutex

	mu        sync.RWMutex
	items     []Item
	observers map[int]func([]Item)
	nextObs   int
}

type StoreOption func(*Store)

func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDemoItems replaces the dataset used when no backend is configured.
func WithDemoItems(items []Item) StoreOption {
	return func(s *Store) {
		s.demo = cloneItems(items)
	}
}

// NewStore creates a store. A nil backend puts the store in read-only demo
// mode; a nil auth denies every mutation.
func NewStore(b Backend, auth Authorizer, opts ...StoreOption) *Store {
	s := &Store{
		backend:   b,
		auth:      auth,
		logger:    zap.NewNop(),
		demo:      DemoItems(),
		observers: make(map[int]func([]Item)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Demo reports whether the store runs without a backend.
func (s *Store) Demo() bool {
	return s.backend == nil
}

// Load replaces the list with the backend's items. On failure the current
// list is left exactly as it was.
func (s *Store) Load(ctx context.Context) error {
	s.mutMu.Lock()
	defer s.mutMu.Unlock()

	if s.backend == nil {
		s.replace(cloneItems(s.demo))
		s.logger.Debug("loaded demo catalog", zap.Int("items", len(s.demo)))
		return nil
	}

	items, err := s.backend.ListItems(ctx)
	if err != nil {
		s.logger.Warn("loading catalog failed", zap.Error(err))
		return fmt.Errorf("loading catalog: %w", err)
	}

	s.replace(dedupe(items))
	s.logger.Debug("loaded catalog", zap.Int("items", len(items)))
	return nil
}

// Insert validates d, creates it on the backend and prepends the stored record.
func (s *Store) Insert(ctx context.Context, d Draft) (Item, error) {
	if !s.authenticated() {
		return Item{}, ErrUnauthenticated
	}
	payload, err := d.Normalize()
	if err != nil {
		return Item{}, err
	}
	if s.backend == nil {
		return Item{}, ErrNoBackend
	}

	s.mutMu.Lock()
	defer s.mutMu.Unlock()
	// The session may have ended while another mutation held the lock.
	if !s.authenticated() {
		return Item{}, ErrUnauthenticated
	}

	created, err := s.backend.CreateItem(ctx, payload)
	if err != nil {
		s.logger.Warn("creating item failed", zap.String("name", payload.Name), zap.Error(err))
		return Item{}, fmt.Errorf("adding %q: %w", payload.Name, err)
	}

	s.mu.Lock()
	next := make([]Item, 0, len(s.items)+1)
	next = append(next, created.Clone())
	for _, it := range s.items {
		if it.ID != created.ID {
			next = append(next, it)
		}
	}
	s.items = next
	s.mu.Unlock()

	s.logger.Info("item added", zap.String("id", created.ID), zap.String("name", created.Name))
	s.notify()
	return created.Clone(), nil
}

// Remove deletes the item with id after confirm approves it.
func (s *Store) Remove(ctx context.Context, id string, confirm ConfirmFunc) error {
	if !s.authenticated() {
		return ErrUnauthenticated
	}
	if s.backend == nil {
		return ErrNoBackend
	}

	s.mutMu.Lock()
	defer s.mutMu.Unlock()
	if !s.authenticated() {
		return ErrUnauthenticated
	}

	item, err := s.Get(id)
	if err != nil {
		return err
	}

	if confirm == nil {
		return ErrCanceled
	}
	ok, err := confirm(item.Clone())
	if err != nil {
		return err
	}
	if !ok {
		return ErrCanceled
	}
	if !s.authenticated() {
		return ErrUnauthenticated
	}

	if err := s.backend.DeleteItem(ctx, id); err != nil {
		s.logger.Warn("deleting item failed", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("removing %q: %w", item.Name, err)
	}

	s.mu.Lock()
	next := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	s.items = next
	s.mu.Unlock()

	s.logger.Info("item removed", zap.String("id", id), zap.String("name", item.Name))
	s.notify()
	return nil
}

// Items returns a snapshot of the list in store order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

func (s *Store) Get(id string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.items {
		if it.ID == id {
			return it.Clone(), nil
		}
	}
	return Item{}, ErrNotFound
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// View derives the visible list from a snapshot.
func (s *Store) View(c Criteria) []Item {
	return DeriveView(s.Items(), c)
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned function removes the registration.
func (s *Store) Subscribe(fn func([]Item)) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Store) authenticated() bool {
	return s.auth != nil && s.auth.Authenticated()
}

func (s *Store) replace(items []Item) {
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	s.notify()
}

func (s *Store) notify() {
	s.mu.RLock()
	fns := make([]func([]Item), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	snapshot := cloneItems(s.items)
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(cloneItems(snapshot))
	}
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// dedupe keeps the first occurrence of each ID.
func dedupe(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID != "" && seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it.Clone())
	}
	return out
}
