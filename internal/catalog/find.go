package catalog

import (
	"fmt"
	"strings"
)

type AmbiguousMatchError struct {
	Query   string
	Matches []Item
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("multiple items match %q", e.Query)
}

// Search resolves query against the current list: an exact ID wins, then a
// case-insensitive exact name, then every item whose name contains query.
func (s *Store) Search(query string) []Item {
	return search(s.Items(), query)
}

// Find resolves query to exactly one item.
func (s *Store) Find(query string) (Item, error) {
	matches := s.Search(query)
	switch len(matches) {
	case 0:
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, query)
	case 1:
		return matches[0], nil
	default:
		return Item{}, &AmbiguousMatchError{Query: query, Matches: matches}
	}
}

func search(items []Item, query string) []Item {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	for _, it := range items {
		if it.ID == query {
			return []Item{it}
		}
	}

	var exact, partial []Item
	lower := strings.ToLower(query)
	for _, it := range items {
		name := strings.ToLower(it.Name)
		switch {
		case name == lower:
			exact = append(exact, it)
		case strings.Contains(name, lower):
			partial = append(partial, it)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return partial
}
