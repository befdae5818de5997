package main

import (
	_ "embed"
	"fmt"
)

var (
	//go:embed completions/pawtrades.bash
	bashCompletion []byte
	//go:embed completions/pawtrades.zsh
	zshCompletion []byte
	//go:embed completions/pawtrades.fish
	fishCompletion []byte
)

type CompletionCmd struct {
	Shell string `arg:"" enum:"bash,zsh,fish" help:"Shell type (bash, zsh, fish)"`
}

func (cmd *CompletionCmd) Run(g *Globals) error {
	var script []byte
	switch cmd.Shell {
	case "bash":
		script = bashCompletion
	case "zsh":
		script = zshCompletion
	case "fish":
		script = fishCompletion
	default:
		return fmt.Errorf("unsupported shell: %s", cmd.Shell)
	}

	_, err := g.Out.Write(script)
	return err
}
