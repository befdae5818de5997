package proptest

import (
	"cmp"
	"math"
	"strings"

	"pawtrades/internal/catalog"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"pgregory.net/rapid"
)

var itemOpts = gocmp.Options{
	cmpopts.EquateEmpty(),
	cmpopts.EquateNaNs(),
}

func assertItemsEqual(t *rapid.T, expected, actual []catalog.Item) {
	t.Helper()
	if diff := gocmp.Diff(expected, actual, itemOpts...); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func ids(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func assertSubset(t *rapid.T, subset, superset []catalog.Item) {
	t.Helper()
	superIDs := make(map[string]bool)
	for _, it := range superset {
		superIDs[it.ID] = true
	}
	for _, it := range subset {
		if !superIDs[it.ID] {
			t.Fatalf("subset contains ID %s not in superset", it.ID)
		}
	}
}

func matches(it catalog.Item, c catalog.Criteria) bool {
	q := strings.ToLower(c.Query)
	textOK := strings.Contains(strings.ToLower(it.Name), q) || strings.Contains(strings.ToLower(it.TagString()), q)
	rarityOK := c.Rarity == "" || it.Rarity == c.Rarity
	return textOK && rarityOK
}

func sortKey(mode catalog.SortMode) func(a, b catalog.Item) int {
	price := func(f float64) float64 {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	}
	switch mode {
	case catalog.SortPriceAsc:
		return func(a, b catalog.Item) int { return cmp.Compare(price(a.Price), price(b.Price)) }
	case catalog.SortPriceDesc:
		return func(a, b catalog.Item) int { return cmp.Compare(price(b.Price), price(a.Price)) }
	case catalog.SortStock:
		return func(a, b catalog.Item) int { return cmp.Compare(b.Stock, a.Stock) }
	default:
		return func(a, b catalog.Item) int { return 0 }
	}
}

// assertOrdered checks that out is sorted by mode and that items with equal
// keys keep the order they had in source.
func assertOrdered(t *rapid.T, out, source []catalog.Item, mode catalog.SortMode) {
	t.Helper()
	pos := make(map[string]int, len(source))
	for i, it := range source {
		pos[it.ID] = i
	}
	compare := sortKey(mode)
	for i := 0; i < len(out)-1; i++ {
		a, b := out[i], out[i+1]
		switch c := compare(a, b); {
		case c > 0:
			t.Fatalf("%s out of order at %d: %s before %s", mode, i, a.ID, b.ID)
		case c == 0 && pos[a.ID] > pos[b.ID]:
			t.Fatalf("%s not stable at %d: %s moved before %s", mode, i, a.ID, b.ID)
		}
	}
}
