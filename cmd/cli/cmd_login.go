package main

import (
	"errors"
	"fmt"
	"strings"

	"pawtrades/internal/auth"
	"pawtrades/internal/backend"
	"pawtrades/internal/ui"
)

type LoginCmd struct {
	Email    string `short:"e" help:"Owner email"`
	Password string `env:"PAWTRADES_PASSWORD" help:"Owner password; prompted when omitted"`
}

func (cmd *LoginCmd) Run(g *Globals) error {
	if g.Store.Demo() {
		return auth.ErrNoBackend
	}

	email, password := strings.TrimSpace(cmd.Email), cmd.Password
	if (email == "" || password == "") && g.Interactive {
		done, err := g.runForm(ui.LoginForm(&email, &password))
		if err != nil || !done {
			return err
		}
	}

	if err := g.Gate.Login(g.context(), auth.Credentials{Email: email, Password: password}); err != nil {
		return errors.New("login falló: " + backend.Message(err))
	}

	fmt.Fprintf(g.Out, "Sesión iniciada como %s\n", g.Gate.State().Subject)
	return nil
}

type LogoutCmd struct{}

func (cmd *LogoutCmd) Run(g *Globals) error {
	if !g.Gate.Authenticated() {
		fmt.Fprintln(g.Out, "No hay sesión activa.")
		return nil
	}
	err := g.Gate.Logout(g.context())
	fmt.Fprintln(g.Out, "Sesión cerrada.")
	return err
}
