package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"pawtrades/cmd/cli/render"
	"pawtrades/internal/auth"
	"pawtrades/internal/catalog"
	"pawtrades/internal/config"
	"pawtrades/internal/contact"
	"pawtrades/internal/ui"

	"github.com/charmbracelet/huh"
	"go.uber.org/zap"
)

type Globals struct {
	Store *catalog.Store
	Gate  *auth.Gate
	Links contact.Builder
	Price func(amount float64) string
	Owner config.Owner
	// Backend names the data source shown by status: "demo" or the backend URL.
	Backend string
	Logger  *zap.Logger

	Out         io.Writer
	In          io.Reader
	Render      render.Renderer
	Interactive bool
	RunCmd      func(name string, args ...string) error
	RunForm     func(f *huh.Form) error
	Confirm     catalog.ConfirmFunc
	// Refresh keeps the backend session fresh until its context is done.
	Refresh func(ctx context.Context)

	ctx      context.Context
	loadMu   sync.Mutex
	loaded   bool
	criteria catalog.Criteria
}

func defaultRunCmd(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func defaultRunForm(f *huh.Form) error {
	return f.Run()
}

func (g *Globals) context() context.Context {
	if g.ctx == nil {
		return context.Background()
	}
	return g.ctx
}

// load fetches the catalog the first time a command needs it. Only a
// successful load sticks; after a failure the next command tries again.
func (g *Globals) load() error {
	g.loadMu.Lock()
	defer g.loadMu.Unlock()
	if g.loaded {
		return nil
	}
	return g.fetchLocked()
}

// reload fetches the catalog again even when it is already loaded.
func (g *Globals) reload() error {
	g.loadMu.Lock()
	defer g.loadMu.Unlock()
	return g.fetchLocked()
}

func (g *Globals) fetchLocked() error {
	if err := g.Store.Load(g.context()); err != nil {
		return err
	}
	g.loaded = true
	return nil
}

func (g *Globals) runCmd(name string, args ...string) error {
	if g.RunCmd == nil {
		return defaultRunCmd(name, args...)
	}
	return g.RunCmd(name, args...)
}

// runForm runs f and reports whether the user completed it.
func (g *Globals) runForm(f *huh.Form) (bool, error) {
	run := g.RunForm
	if run == nil {
		run = defaultRunForm
	}
	if err := run(f); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (g *Globals) confirmRemove(item catalog.Item) (bool, error) {
	if g.Confirm != nil {
		return g.Confirm(item)
	}
	if !g.Interactive {
		return false, fmt.Errorf("refusing to remove %q without confirmation (use --yes)", item.Name)
	}
	var ok bool
	done, err := g.runForm(ui.ConfirmForm(fmt.Sprintf("¿Eliminar este pet? %s", item.Name), &ok))
	if err != nil {
		return false, err
	}
	return done && ok, nil
}

func (g *Globals) Close() {
	if g.Gate != nil {
		g.Gate.Close()
	}
	if g.Logger != nil {
		_ = g.Logger.Sync()
	}
}

func openCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	default:
		return "xdg-open"
	}
}
