package catalog

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("item not found")
	ErrUnauthenticated = errors.New("sign in required")
	ErrNoBackend       = errors.New("no backend configured (set SUPABASE_URL and SUPABASE_ANON_KEY)")
	ErrCanceled        = errors.New("canceled")
	ErrEmptyName       = errors.New("item name cannot be empty")
	ErrUnknownRarity   = errors.New("unknown rarity")
)

// ValidationError reports bad user input caught before any backend call.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Backend is the persistence side of the remote collaborator.
type Backend interface {
	// ListItems returns every item ordered by name ascending.
	ListItems(ctx context.Context) ([]Item, error)
	// CreateItem stores item and returns the stored record with its ID.
	CreateItem(ctx context.Context, item Item) (Item, error)
	DeleteItem(ctx context.Context, id string) error
}

// Authorizer reports whether mutations are currently allowed.
type Authorizer interface {
	Authenticated() bool
}

// ConfirmFunc asks the user to confirm removing item.
type ConfirmFunc func(item Item) (bool, error)

// AlwaysConfirm approves every removal.
func AlwaysConfirm(Item) (bool, error) { return true, nil }
