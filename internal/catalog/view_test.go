package catalog_test

import (
	"math"
	"pawtrades/internal/catalog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestDeriveView_TextFilter(t *testing.T) {
	items := catalog.DemoItems()

	t.Run("empty query matches everything", func(t *testing.T) {
		got := catalog.DeriveView(items, catalog.Criteria{})

		assert.Equal(t, ids(items), ids(got))
	})

	t.Run("matches name case-insensitively", func(t *testing.T) {
		got := catalog.DeriveView(items, catalog.Criteria{Query: "DRAGON"})

		assert.Equal(t, []string{"p1"}, ids(got))
	})

	t.Run("matches tags", func(t *testing.T) {
		got := catalog.DeriveView(items, catalog.Criteria{Query: "montable"})

		assert.Equal(t, []string{"p1", "p2"}, ids(got))
	})

	t.Run("matches non-ascii tags", func(t *testing.T) {
		got := catalog.DeriveView(items, catalog.Criteria{Query: "NEÓN"})

		assert.Equal(t, []string{"p1"}, ids(got))
	})

	t.Run("is plain substring containment", func(t *testing.T) {
		got := catalog.DeriveView(items, catalog.Criteria{Query: "lden pen"})

		assert.Equal(t, []string{"p4"}, ids(got))
	})

	t.Run("no match yields empty non-nil slice", func(t *testing.T) {
		got := catalog.DeriveView(items, catalog.Criteria{Query: "zzz"})

		require.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestDeriveView_RarityFilter(t *testing.T) {
	items := catalog.DemoItems()

	got := catalog.DeriveView(items, catalog.Criteria{Rarity: catalog.RarityLegendary})

	assert.Equal(t, []string{"p1", "p2"}, ids(got))
	for _, it := range got {
		assert.Equal(t, catalog.RarityLegendary, it.Rarity)
	}
}

func TestDeriveView_Sort(t *testing.T) {
	items := []catalog.Item{
		{ID: "a", Name: "A", Price: 20, Stock: 1},
		{ID: "b", Name: "B", Price: 10, Stock: 5},
		{ID: "c", Name: "C", Price: 20, Stock: 5},
		{ID: "d", Name: "D", Price: 5, Stock: 0},
	}

	testCases := []struct {
		mode catalog.SortMode
		want []string
	}{
		{catalog.SortRecent, []string{"a", "b", "c", "d"}},
		{catalog.SortPriceAsc, []string{"d", "b", "a", "c"}},
		{catalog.SortPriceDesc, []string{"a", "c", "b", "d"}},
		{catalog.SortStock, []string{"b", "c", "a", "d"}},
	}

	for _, tc := range testCases {
		t.Run(string(tc.mode), func(t *testing.T) {
			got := catalog.DeriveView(items, catalog.Criteria{Sort: tc.mode})

			assert.Equal(t, tc.want, ids(got))
		})
	}

	t.Run("equal prices keep input order", func(t *testing.T) {
		reversed := []catalog.Item{items[2], items[0]}

		got := catalog.DeriveView(reversed, catalog.Criteria{Sort: catalog.SortPriceAsc})

		assert.Equal(t, []string{"c", "a"}, ids(got))
	})

	t.Run("nan price orders as zero and is kept", func(t *testing.T) {
		withNaN := []catalog.Item{
			{ID: "x", Price: 3},
			{ID: "nan", Price: math.NaN()},
			{ID: "y", Price: 1},
		}

		got := catalog.DeriveView(withNaN, catalog.Criteria{Sort: catalog.SortPriceAsc})

		assert.Equal(t, []string{"nan", "y", "x"}, ids(got))
	})
}

func TestDeriveView_DoesNotMutateInput(t *testing.T) {
	items := catalog.DemoItems()
	before := catalog.DemoItems()

	first := catalog.DeriveView(items, catalog.Criteria{Sort: catalog.SortPriceAsc})
	second := catalog.DeriveView(items, catalog.Criteria{Sort: catalog.SortPriceAsc})

	if diff := cmp.Diff(before, items); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
	assert.Equal(t, ids(first), ids(second))
}

func TestDeriveView_EmptyImageIsHarmless(t *testing.T) {
	items := []catalog.Item{{ID: "1", Name: "No Image", Img: ""}, {ID: "2", Name: "Bad", Img: "::not a url"}}

	got := catalog.DeriveView(items, catalog.Criteria{Query: "a"})

	assert.Equal(t, []string{"1", "2"}, ids(got))
}

func TestDeriveView_EndToEnd(t *testing.T) {
	items := []catalog.Item{
		{ID: "1", Name: "Shadow Dragon", Rarity: catalog.RarityLegendary, Price: 350000, Stock: 1},
		{ID: "2", Name: "Frost Fury", Rarity: catalog.RarityLegendary, Price: 210000, Stock: 3},
		{ID: "3", Name: "Albino Monkey", Rarity: catalog.RarityUltraRare, Price: 90000, Stock: 2},
		{ID: "4", Name: "Golden Penguin", Rarity: catalog.RarityRare, Price: 45000, Stock: 5},
	}
	// Scramble so sorting has work to do.
	input := []catalog.Item{items[2], items[0], items[3], items[1]}

	all := catalog.DeriveView(input, catalog.Criteria{Sort: catalog.SortPriceDesc})
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i-1].Price, all[i].Price)
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(all))

	legendary := catalog.DeriveView(input, catalog.Criteria{Sort: catalog.SortPriceDesc, Rarity: catalog.RarityLegendary})
	assert.Equal(t, []string{"1", "2"}, ids(legendary))
}

func TestParseSortMode(t *testing.T) {
	testCases := map[string]catalog.SortMode{
		"":           catalog.SortRecent,
		"recent":     catalog.SortRecent,
		"price-asc":  catalog.SortPriceAsc,
		"price_asc":  catalog.SortPriceAsc,
		"PRICE-DESC": catalog.SortPriceDesc,
		"stock_desc": catalog.SortStock,
		"stock":      catalog.SortStock,
	}
	for in, want := range testCases {
		got, err := catalog.ParseSortMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := catalog.ParseSortMode("alphabetical")
	assert.Error(t, err)
}
