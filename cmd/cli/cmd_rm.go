package main

import (
	"errors"
	"fmt"

	"pawtrades/internal/catalog"
)

type RmCmd struct {
	Name string `arg:"" help:"Pet name or ID to remove"`
	Yes  bool   `short:"y" help:"Do not ask for confirmation"`
}

func (cmd *RmCmd) Run(g *Globals) error {
	if !g.Gate.Affordances().CanRemove {
		return catalog.ErrUnauthenticated
	}
	item, err := findItem(g, cmd.Name)
	if err != nil {
		if handleFindError(g.Out, err) {
			return nil
		}
		return err
	}

	confirm := g.confirmRemove
	if cmd.Yes {
		confirm = catalog.AlwaysConfirm
	}

	err = g.Store.Remove(g.context(), item.ID, confirm)
	if errors.Is(err, catalog.ErrCanceled) {
		fmt.Fprintln(g.Out, "Cancelado.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to remove %q: %w", item.Name, err)
	}

	fmt.Fprintf(g.Out, "Eliminado: %s\n", item.Name)
	return nil
}
