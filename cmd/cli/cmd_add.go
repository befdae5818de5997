package main

import (
	"fmt"
	"strings"

	"pawtrades/internal/catalog"
	"pawtrades/internal/ui"
)

type AddCmd struct {
	Name   string `short:"n" help:"Pet name; prompts for every field when omitted"`
	Rarity string `short:"r" help:"Rarity (legendario, ultra-raro, raro, común)"`
	Price  string `short:"p" help:"Price in the store currency"`
	Stock  string `short:"s" help:"Units available"`
	Img    string `short:"i" help:"Image URL (square or rectangular)"`
	Tags   string `short:"t" help:"Comma separated tags, e.g. neón,fly,ride"`
}

func (cmd *AddCmd) draft() catalog.Draft {
	return catalog.Draft{
		Name:   cmd.Name,
		Rarity: cmd.Rarity,
		Price:  cmd.Price,
		Stock:  cmd.Stock,
		Img:    cmd.Img,
		Tags:   cmd.Tags,
	}
}

func (cmd *AddCmd) Run(g *Globals) error {
	if !g.Gate.Affordances().CanAdd {
		return catalog.ErrUnauthenticated
	}
	if err := g.load(); err != nil {
		return err
	}

	d := cmd.draft()
	if strings.TrimSpace(d.Name) == "" && g.Interactive {
		done, err := g.runForm(ui.ItemForm(&d))
		if err != nil || !done {
			return err
		}
		renderAddSummary(g, d)
	}

	created, err := g.Store.Insert(g.context(), d)
	if err != nil {
		return err
	}

	notes := []string{
		fmt.Sprintf("%s · %s", created.Rarity.Label(), g.Price(created.Price)),
		fmt.Sprintf("Stock: %d", created.Stock),
	}
	fmt.Fprint(g.Out, ui.RenderOutcome("Agregado "+created.Name, "ID "+created.ID, notes))
	return nil
}

func renderAddSummary(g *Globals, d catalog.Draft) {
	output := ui.RenderCard("Agregar nuevo pet", ui.DraftFields(d))
	fmt.Fprint(g.Out, output)
}
