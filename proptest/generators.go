package proptest

import (
	"fmt"
	"math"

	"pawtrades/internal/catalog"

	"pgregory.net/rapid"
)

var (
	nameWordGen   = rapid.SampledFrom([]string{"Shadow", "Frost", "Golden", "Albino", "Neon", "Dragon", "Fury", "Penguin", "Monkey", "Ñandú", "Pingüino"})
	tagGen        = rapid.SampledFrom([]string{"neón", "fly", "ride", "montable", "colección", "mega"})
	shortQueryGen = rapid.StringMatching(`[a-zñó]{1,4}`)
	passwordGen   = rapid.StringMatching(`[a-z0-9]{6,12}`)
)

func nameGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		first := nameWordGen.Draw(t, "first")
		if rapid.Bool().Draw(t, "twoWords") {
			return first + " " + nameWordGen.Draw(t, "second")
		}
		return first
	})
}

// rarityGen mostly yields known tiers, with the occasional unknown value the
// backend might hand out.
func rarityGen() *rapid.Generator[catalog.Rarity] {
	return rapid.OneOf(
		rapid.SampledFrom(catalog.Rarities),
		rapid.SampledFrom(catalog.Rarities),
		rapid.SampledFrom(catalog.Rarities),
		rapid.Just(catalog.Rarity("mythic")),
	)
}

func priceGen() *rapid.Generator[float64] {
	return rapid.OneOf(
		rapid.Float64Range(0, 500000),
		rapid.SampledFrom([]float64{0, 45000, 90000, 210000, 350000}),
		rapid.Just(math.NaN()),
	)
}

func tagsGen() *rapid.Generator[[]string] {
	return rapid.SliceOfNDistinct(tagGen, 0, 3, rapid.ID[string])
}

func itemGen(id string) *rapid.Generator[catalog.Item] {
	return rapid.Custom(func(t *rapid.T) catalog.Item {
		return catalog.Item{
			ID:     id,
			Name:   nameGen().Draw(t, "name"),
			Rarity: rarityGen().Draw(t, "rarity"),
			Price:  priceGen().Draw(t, "price"),
			Stock:  rapid.IntRange(0, 10).Draw(t, "stock"),
			Tags:   tagsGen().Draw(t, "tags"),
		}
	})
}

// itemsGen yields items with distinct IDs p1..pN.
func itemsGen(minLen, maxLen int) *rapid.Generator[[]catalog.Item] {
	return rapid.Custom(func(t *rapid.T) []catalog.Item {
		n := rapid.IntRange(minLen, maxLen).Draw(t, "numItems")
		items := make([]catalog.Item, n)
		for i := range items {
			items[i] = itemGen(fmt.Sprintf("p%d", i+1)).Draw(t, fmt.Sprintf("item%d", i))
		}
		return items
	})
}

func criteriaGen() *rapid.Generator[catalog.Criteria] {
	return rapid.Custom(func(t *rapid.T) catalog.Criteria {
		var c catalog.Criteria
		if rapid.Bool().Draw(t, "hasQuery") {
			c.Query = rapid.OneOf(shortQueryGen, tagGen, nameWordGen).Draw(t, "query")
		}
		if rapid.Bool().Draw(t, "hasRarity") {
			c.Rarity = rarityGen().Draw(t, "rarity")
		}
		c.Sort = rapid.SampledFrom(append([]catalog.SortMode{""}, catalog.SortModes...)).Draw(t, "sort")
		return c
	})
}

func draftGen() *rapid.Generator[catalog.Draft] {
	return rapid.Custom(func(t *rapid.T) catalog.Draft {
		return catalog.Draft{
			Name:   nameGen().Draw(t, "name"),
			Rarity: rapid.SampledFrom([]string{"", "legendario", "ultra-raro", "raro", "común", "legendary"}).Draw(t, "rarity"),
			Price:  rapid.SampledFrom([]string{"", "0", "1500", "350000", "abc", "-3"}).Draw(t, "price"),
			Stock:  rapid.SampledFrom([]string{"", "1", "5", "x", "1e20", "9.3e18"}).Draw(t, "stock"),
			Tags:   rapid.SampledFrom([]string{"", "neón,fly", " ride , ,mega "}).Draw(t, "tags"),
		}
	})
}
