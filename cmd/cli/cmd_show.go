package main

import (
	"fmt"

	"pawtrades/cmd/cli/render"
)

type ShowCmd struct {
	Name string `arg:"" help:"Pet name or ID"`
	Link bool   `help:"Output only the WhatsApp link (for scripting)"`
}

func (cmd *ShowCmd) Run(g *Globals) error {
	item, err := findItem(g, cmd.Name)
	if err != nil {
		if handleFindError(g.Out, err) {
			return nil
		}
		return err
	}

	link := g.Links.Link(&item)
	if cmd.Link {
		fmt.Fprintln(g.Out, link)
		return nil
	}

	view := render.ItemDetailView{
		Item:      toCard(item, g.Price),
		Contact:   link,
		CanDelete: g.Gate.Affordances().CanRemove,
	}
	fmt.Fprint(g.Out, g.Render.RenderItemDetail(view))
	return nil
}
