package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"pawtrades/cmd/cli/render"
	"pawtrades/internal/catalog"
)

func writeMatches(w io.Writer, e *catalog.AmbiguousMatchError) {
	fmt.Fprintln(w, "Varios pets coinciden. Sé más específico:")
	for _, it := range e.Matches {
		fmt.Fprintf(w, "  - %s (%s)\n", it.Name, it.ID)
	}
}

func handleFindError(w io.Writer, err error) bool {
	var ambErr *catalog.AmbiguousMatchError
	if errors.As(err, &ambErr) {
		writeMatches(w, ambErr)
		return true
	}
	return false
}

// findItem loads the catalog and resolves query to exactly one item.
func findItem(g *Globals, query string) (catalog.Item, error) {
	if err := g.load(); err != nil {
		return catalog.Item{}, err
	}
	return g.Store.Find(query)
}

func toCard(it catalog.Item, price func(float64) string) render.ItemCard {
	return render.ItemCard{
		ID:     it.ID,
		Name:   it.Name,
		Rarity: it.Rarity.Label(),
		Price:  price(it.Price),
		Stock:  it.Stock,
		Tags:   it.Tags,
		Img:    it.Img,
	}
}

func toCards(items []catalog.Item, price func(float64) string) []render.ItemCard {
	cards := make([]render.ItemCard, len(items))
	for i, it := range items {
		cards[i] = toCard(it, price)
	}
	return cards
}

// describeCriteria summarizes the active filters for the list header.
func describeCriteria(c catalog.Criteria, shown, total int) string {
	parts := []string{fmt.Sprintf("%d de %d pets", shown, total)}
	if c.Query != "" {
		parts = append(parts, fmt.Sprintf("Búsqueda: %q", c.Query))
	}
	if c.Rarity != "" {
		label := string(c.Rarity)
		if c.Rarity.Known() {
			label = c.Rarity.Label()
		}
		parts = append(parts, "Rareza: "+label)
	}
	sort := c.Sort
	if sort == "" {
		sort = catalog.SortRecent
	}
	parts = append(parts, sort.Label())
	return strings.Join(parts, " · ")
}

func parseCriteria(query, rarity, sort string) (catalog.Criteria, error) {
	mode, err := catalog.ParseSortMode(sort)
	if err != nil {
		return catalog.Criteria{}, err
	}
	c := catalog.Criteria{Query: query, Sort: mode}
	if strings.TrimSpace(rarity) != "" {
		c.Rarity, _ = catalog.ParseRarity(rarity)
	}
	return c, nil
}
