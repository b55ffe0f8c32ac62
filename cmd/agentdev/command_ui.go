package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"agentdev/internal/app"
	"agentdev/internal/client"
	"agentdev/internal/config"
	"agentdev/internal/detailcache"
	"agentdev/internal/logging"
	"agentdev/internal/types"
)

type UICommand struct {
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	newClient  clientFactory
	runUI      func(ctx context.Context, opts app.Options) error
}

func NewUICommand(stderr io.Writer, loadConfig func() (config.Config, error), newClient clientFactory, runUI func(ctx context.Context, opts app.Options) error) *UICommand {
	return &UICommand{
		stderr:     stderr,
		loadConfig: loadConfig,
		newClient:  newClient,
		runUI:      runUI,
	}
}

func (c *UICommand) Run(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	modeFlag := fs.String("mode", "", "initial detail mode: user_only|conversation|full")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog := openUILogger(cfg)
	defer closeLog()

	api, err := c.newClient(cfg, logger)
	if err != nil {
		return err
	}
	mode := cfg.DetailMode()
	if parsed, ok := types.ParseDetailMode(*modeFlag); ok {
		mode = parsed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache := detailcache.New(api,
		detailcache.WithLogger(logging.WithComponent(logger, "detailcache")),
		detailcache.WithBaseContext(ctx),
	)
	defer cache.Close()

	logger.Info("ui_start", logging.F("api", cfg.APIBaseURL()), logging.F("mode", string(mode)))
	err = c.runUI(ctx, app.Options{
		Snapshots:       client.NewSnapshotLoader(api, logging.WithComponent(logger, "snapshot")),
		Git:             api,
		Cache:           cache,
		Logger:          logging.WithComponent(logger, "app"),
		DetailMode:      mode,
		RefreshInterval: cfg.RefreshInterval(),
	})
	if err != nil {
		logger.Error("ui_exit", logging.F("error", err))
	}
	return err
}

// openUILogger logs to the configured file since the dashboard owns the
// terminal. Failures fall back to a discarding logger.
func openUILogger(cfg config.Config) (logging.Logger, func()) {
	path, err := cfg.LogFilePath()
	if err != nil {
		return logging.Nop(), func() {}
	}
	logger, closer, err := logging.OpenFile(path, logging.ParseLevel(cfg.LogLevel()))
	if err != nil {
		return logging.Nop(), func() {}
	}
	return logger, func() { _ = closer.Close() }
}
