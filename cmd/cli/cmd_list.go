package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"pawtrades/cmd/cli/render"
	"pawtrades/internal/catalog"
)

type ListCmd struct {
	Query  string `short:"q" help:"Filter by name or tag (case-insensitive)"`
	Rarity string `short:"r" help:"Only show this rarity (legendario, ultra-raro, raro, común)"`
	Sort   string `short:"s" default:"recent" enum:"recent,price-asc,price-desc,stock" help:"Order: recent, price-asc, price-desc or stock"`
	Names  bool   `short:"n" help:"Output only pet names (one per line)"`
	Plain  bool   `short:"p" help:"Output a plain table"`
}

func (cmd *ListCmd) Run(g *Globals) error {
	if err := g.load(); err != nil {
		return err
	}

	criteria, err := parseCriteria(cmd.Query, cmd.Rarity, cmd.Sort)
	if err != nil {
		return err
	}
	g.criteria = criteria
	items := g.Store.View(criteria)

	if cmd.Names {
		for _, it := range items {
			fmt.Fprintln(g.Out, it.Name)
		}
		return nil
	}
	if cmd.Plain {
		return printItems(g, items)
	}

	renderList(g, items)
	return nil
}

func renderList(g *Globals, items []catalog.Item) {
	view := render.ItemListView{
		Items:   toCards(items, g.Price),
		Summary: describeCriteria(g.criteria, len(items), g.Store.Count()),
	}
	fmt.Fprint(g.Out, g.Render.RenderItemList(view))
}

func printItems(g *Globals, items []catalog.Item) error {
	w := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOMBRE\tRAREZA\tPRECIO\tSTOCK\tTAGS")
	fmt.Fprintln(w, "--\t------\t------\t------\t-----\t----")

	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			it.ID, it.Name, it.Rarity.Label(), g.Price(it.Price), it.Stock, strings.Join(it.Tags, ", "))
	}

	return w.Flush()
}
