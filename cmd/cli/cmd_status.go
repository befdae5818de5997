package main

import (
	"fmt"
	"strings"

	"pawtrades/internal/auth"
)

type StatusCmd struct{}

func (cmd *StatusCmd) Run(g *Globals) error {
	state := g.Gate.State()

	fmt.Fprintf(g.Out, "Catálogo: %s\n", g.Backend)
	if state.Status == auth.Authenticated {
		fmt.Fprintf(g.Out, "Sesión:   %s\n", state.Subject)
	} else {
		fmt.Fprintln(g.Out, "Sesión:   anónima")
	}
	fmt.Fprintf(g.Out, "Acciones: %s\n", strings.Join(actions(state.Affordances()), ", "))
	return nil
}

func actions(a auth.Affordances) []string {
	out := []string{"list", "show", "contact"}
	if a.CanAdd {
		out = append(out, "add")
	}
	if a.CanRemove {
		out = append(out, "rm")
	}
	if a.ShowLogin {
		out = append(out, "login")
	}
	if a.ShowLogout {
		out = append(out, "logout")
	}
	return out
}
