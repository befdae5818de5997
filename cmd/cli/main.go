package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"pawtrades/cmd/cli/render"
	"pawtrades/internal/auth"
	"pawtrades/internal/catalog"
	"pawtrades/internal/config"
	"pawtrades/internal/contact"
	"pawtrades/internal/logging"
	"pawtrades/internal/money"
	"pawtrades/internal/supabase"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/x/term"
	"go.uber.org/zap"
)

type CLI struct {
	List    ListCmd    `cmd:"" aliases:"ls" help:"List pets in the catalog"`
	Show    ShowCmd    `cmd:"" help:"Show a pet's details"`
	Contact ContactCmd `cmd:"" help:"Print the WhatsApp link for a pet or a general inquiry"`
	Add     AddCmd     `cmd:"" aliases:"a" help:"Add a pet to the catalog (owner only)"`
	Rm      RmCmd      `cmd:"" help:"Remove a pet from the catalog (owner only)"`
	Login   LoginCmd   `cmd:"" help:"Sign in as the owner"`
	Logout  LogoutCmd  `cmd:"" help:"Sign out"`
	Status  StatusCmd  `cmd:"" help:"Show backend and session status"`
	Shell   ShellCmd   `cmd:"" help:"Browse the catalog interactively"`
	About   AboutCmd   `cmd:"" help:"Show storefront details and the disclaimer"`

	Completion CompletionCmd `cmd:"" help:"Print a shell completion script"`

	ConfigPath  string `name:"config" short:"c" help:"Path to config file"`
	SessionPath string `name:"session" help:"Path to session file"`
	Verbose     bool   `short:"v" help:"Log debug output to stderr"`
	Demo        bool   `help:"Use the built-in demo catalog even when a backend is configured"`

	ctx     context.Context `kong:"-"`
	globals *Globals        `kong:"-"`
}

func (c *CLI) AfterApply(ctx *kong.Context) error {
	base := c.ctx
	if base == nil {
		base = context.Background()
	}

	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Verbose: c.Verbose,
	})
	if err != nil {
		return err
	}

	g, err := c.buildGlobals(base, cfg, logger)
	if err != nil {
		return err
	}
	c.globals = g
	ctx.Bind(g)
	return nil
}

func (c *CLI) buildGlobals(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Globals, error) {
	prices := money.New(cfg.Owner.Locale, cfg.Owner.Currency)

	var (
		provider auth.Provider
		items    catalog.Backend
		refresh  func(context.Context)
		mode     = "demo"
	)
	if !c.Demo && cfg.Backend.Enabled() {
		sessionPath := c.SessionPath
		if sessionPath == "" {
			sessionPath = config.DefaultSessionPath()
		}
		sessionPath, err := config.ExpandPath(sessionPath)
		if err != nil {
			return nil, fmt.Errorf("invalid session path: %w", err)
		}
		sessions, err := auth.NewFileStore(sessionPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open session store: %w", err)
		}
		client, err := supabase.New(supabase.Config{
			URL:     cfg.Backend.URL,
			AnonKey: cfg.Backend.AnonKey,
			Table:   cfg.Backend.Table,
		},
			supabase.WithLogger(logger.Named("supabase")),
			supabase.WithSessionStore(sessions),
		)
		if err != nil {
			return nil, err
		}
		provider, items, refresh = client, client, client.AutoRefresh
		mode = cfg.Backend.URL
	}

	gate := auth.NewGate(provider, auth.WithLogger(logger.Named("auth")))
	if err := gate.Start(ctx); err != nil {
		logger.Warn("continuing signed out", zap.Error(err))
	}

	g := &Globals{
		Store:       catalog.NewStore(items, gate, catalog.WithLogger(logger.Named("catalog"))),
		Gate:        gate,
		Links:       contact.NewBuilder(cfg.Owner.WhatsApp, cfg.Owner.Brand, prices),
		Price:       prices.Format,
		Owner:       cfg.Owner,
		Backend:     mode,
		Logger:      logger,
		Out:         os.Stdout,
		In:          os.Stdin,
		Render:      render.NewLipglossRendererAuto(os.Stdout),
		Interactive: term.IsTerminal(os.Stdin.Fd()),
		Refresh:     refresh,
		ctx:         ctx,
	}
	return g, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := CLI{ctx: ctx}
	kctx := kong.Parse(&cli,
		kong.Name("pawtrades"),
		kong.Description("Paws & Trades: browse, buy, sell and trade pets"),
		kong.UsageOnError(),
	)
	err := kctx.Run()
	if cli.globals != nil {
		cli.globals.Close()
	}
	kctx.FatalIfErrorf(err)
}
