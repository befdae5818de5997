package catalog

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

type SortMode string

const (
	SortRecent    SortMode = "recent"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortStock     SortMode = "stock"
)

var SortModes = []SortMode{SortRecent, SortPriceAsc, SortPriceDesc, SortStock}

var sortLabels = map[SortMode]string{
	SortRecent:    "Orden: Recientes",
	SortPriceAsc:  "Precio: menor a mayor",
	SortPriceDesc: "Precio: mayor a menor",
	SortStock:     "Stock",
}

func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "recent":
		return SortRecent, nil
	case "price-asc", "price_asc":
		return SortPriceAsc, nil
	case "price-desc", "price_desc":
		return SortPriceDesc, nil
	case "stock", "stock-desc", "stock_desc":
		return SortStock, nil
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

func (m SortMode) Label() string {
	if l, ok := sortLabels[m]; ok {
		return l
	}
	return string(m)
}

// Criteria selects and orders the visible items. An empty Rarity matches all.
type Criteria struct {
	Query  string
	Rarity Rarity
	Sort   SortMode
}

// DeriveView filters items by text and rarity, then orders them according to
// c.Sort. The input slice is never modified.
func DeriveView(items []Item, c Criteria) []Item {
	query := strings.ToLower(c.Query)

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if !matchesQuery(it, query) {
			continue
		}
		if c.Rarity != "" && it.Rarity != c.Rarity {
			continue
		}
		out = append(out, it)
	}

	sortItems(out, c.Sort)
	return out
}

func matchesQuery(it Item, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(it.Name), query) {
		return true
	}
	return strings.Contains(strings.ToLower(it.TagString()), query)
}

func sortItems(items []Item, mode SortMode) {
	switch mode {
	case SortPriceAsc:
		slices.SortStableFunc(items, func(a, b Item) int {
			return cmp.Compare(orderValue(a.Price), orderValue(b.Price))
		})
	case SortPriceDesc:
		slices.SortStableFunc(items, func(a, b Item) int {
			return cmp.Compare(orderValue(b.Price), orderValue(a.Price))
		})
	case SortStock:
		slices.SortStableFunc(items, func(a, b Item) int {
			return cmp.Compare(b.Stock, a.Stock)
		})
	}
}

func orderValue(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
