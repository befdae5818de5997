package proptest

import (
	"pawtrades/internal/catalog"

	"pgregory.net/rapid"
)

func verifyStructuralInvariants(t *rapid.T, store *catalog.Store) {
	items := store.Items()
	if store.Count() != len(items) {
		t.Fatalf("Count()=%d but len(Items())=%d", store.Count(), len(items))
	}

	seen := make(map[string]bool)
	for _, it := range items {
		if it.ID == "" {
			t.Fatalf("item %q has empty ID", it.Name)
		}
		if seen[it.ID] {
			t.Fatalf("duplicate ID %q in Items()", it.ID)
		}
		seen[it.ID] = true
	}
}
