package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"pawtrades/internal/auth"
	"pawtrades/internal/backend"
	"pawtrades/internal/catalog"

	"github.com/alecthomas/kong"
)

type ShellCmd struct{}

type shellCommands struct {
	List    ListCmd    `cmd:"" aliases:"ls,l" help:"List pets (same flags as pawtrades list)"`
	Show    ShowCmd    `cmd:"" help:"Show a pet's details"`
	Contact ContactCmd `cmd:"" help:"Print the WhatsApp link"`
	Add     AddCmd     `cmd:"" aliases:"a" help:"Add a pet (owner only)"`
	Rm      RmCmd      `cmd:"" help:"Remove a pet (owner only)"`
	Login   LoginCmd   `cmd:"" help:"Sign in as the owner"`
	Logout  LogoutCmd  `cmd:"" aliases:"salir" help:"Sign out"`
	Status  StatusCmd  `cmd:"" help:"Show backend and session status"`
	About   AboutCmd   `cmd:"" help:"Show storefront details"`
	Reload  reloadCmd  `cmd:"" help:"Fetch the catalog again"`
	Help    helpCmd    `cmd:"" help:"Show available commands"`
}

type reloadCmd struct{}

func (cmd *reloadCmd) Run(g *Globals) error {
	if err := g.reload(); err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "Catálogo actualizado: %d pets.\n", g.Store.Count())
	return nil
}

type helpCmd struct{}

func (cmd *helpCmd) Run(kctx *kong.Context) error {
	if err := kctx.PrintUsage(true); err != nil {
		return err
	}
	fmt.Fprintln(kctx.Stdout, "  exit | quit       Leave the shell")
	return nil
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func (cmd *ShellCmd) Run(g *Globals) error {
	out := &lockedWriter{w: g.Out}
	orig := g.Out
	g.Out = out
	defer func() { g.Out = orig }()

	if err := g.load(); err != nil {
		fmt.Fprintf(out, "No se pudo cargar el catálogo: %s\n", backend.Message(err))
	}

	ctx, cancel := context.WithCancel(g.context())
	var wg sync.WaitGroup
	if g.Refresh != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Refresh(ctx)
		}()
	}
	defer func() {
		cancel()
		wg.Wait()
	}()

	var busy, changed atomic.Bool
	unsubStore := g.Store.Subscribe(func([]catalog.Item) {
		changed.Store(true)
	})
	defer unsubStore()
	unsubGate := g.Gate.Subscribe(func(s auth.State) {
		if busy.Load() {
			return
		}
		fmt.Fprintf(out, "\n%s\n", describeState(s))
	})
	defer unsubGate()

	parser, err := kong.New(&shellCommands{},
		kong.Name("pawtrades"),
		kong.NoDefaultHelp(),
		kong.Exit(func(int) {}),
		kong.Writers(out, out),
		kong.Bind(g),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s · %d pets. Escribí help para ver los comandos.\n", g.Owner.Brand, g.Store.Count())
	scanner := bufio.NewScanner(g.In)
	for {
		fmt.Fprintf(out, "%s> ", prompt(g.Gate.State()))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		args := splitCommand(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}

		busy.Store(true)
		changed.Store(false)
		isList := args[0] == "list" || args[0] == "ls" || args[0] == "l"
		runShellLine(g, parser, args)
		if changed.Swap(false) && !isList {
			renderList(g, g.Store.View(g.criteria))
		}
		busy.Store(false)

		if ctx.Err() != nil {
			return nil
		}
	}
}

func runShellLine(g *Globals, parser *kong.Kong, args []string) {
	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(g.Out, "Error: %v\n", err)
		return
	}
	if err := kctx.Run(); err != nil {
		printShellError(g.Out, err)
	}
}

func printShellError(w io.Writer, err error) {
	var be *backend.Error
	if errors.As(err, &be) {
		fmt.Fprintf(w, "Error: %s\n", be.Message)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func prompt(s auth.State) string {
	if s.Status == auth.Authenticated {
		return "pawtrades (" + s.Subject + ")"
	}
	return "pawtrades"
}

func describeState(s auth.State) string {
	if s.Status == auth.Authenticated {
		return "Sesión iniciada como " + s.Subject
	}
	return "Sesión cerrada."
}

// splitCommand splits a shell line on whitespace, keeping quoted runs intact.
func splitCommand(s string) []string {
	var result []string
	var current strings.Builder
	var inQuote rune
	quoted := false

	for _, r := range s {
		if inQuote != 0 {
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
			continue
		}
		switch r {
		case '"', '\'':
			inQuote = r
			quoted = true
		case ' ', '\t':
			if current.Len() > 0 || quoted {
				result = append(result, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 || quoted {
		result = append(result, current.String())
	}
	return result
}
