package main

import (
	"fmt"

	"pawtrades/internal/catalog"
)

type ContactCmd struct {
	Name  string `arg:"" optional:"" help:"Pet name or ID; omit to ask about selling or trading"`
	Open  bool   `short:"o" help:"Open the link in the browser"`
	Plain bool   `help:"Link to the chat without a prefilled message"`
}

func (cmd *ContactCmd) Run(g *Globals) error {
	var item *catalog.Item
	if cmd.Name != "" {
		found, err := findItem(g, cmd.Name)
		if err != nil {
			if handleFindError(g.Out, err) {
				return nil
			}
			return err
		}
		item = &found
	}

	link := g.Links.Link(item)
	if cmd.Plain {
		link = g.Links.Plain()
	}
	fmt.Fprintln(g.Out, link)

	if cmd.Open {
		if err := g.runCmd(openCommand(), link); err != nil {
			return fmt.Errorf("failed to open link: %w", err)
		}
	}
	return nil
}
