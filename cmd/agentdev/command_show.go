package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"agentdev/internal/config"
	"agentdev/internal/detailcache"
	"agentdev/internal/logging"
	"agentdev/internal/providers"
	"agentdev/internal/types"
)

type ShowCommand struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	newClient  clientFactory
}

func NewShowCommand(stdout, stderr io.Writer, loadConfig func() (config.Config, error), newClient clientFactory) *ShowCommand {
	return &ShowCommand{
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: loadConfig,
		newClient:  newClient,
	}
}

func (c *ShowCommand) Run(args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	modeFlag := fs.String("mode", "", "detail mode: user_only|conversation|full (default from config)")
	format := fs.String("format", formatText, "output format: text|json|yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("usage: agentdev show <provider> <session-id> [flags]")
	}
	resolvedFormat, err := resolveFormat(*format, formatText, formatJSON, formatYAML)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	mode := cfg.DetailMode()
	if strings.TrimSpace(*modeFlag) != "" {
		parsed, ok := types.ParseDetailMode(*modeFlag)
		if !ok {
			return fmt.Errorf("invalid mode %q: must be user_only, conversation or full", *modeFlag)
		}
		mode = parsed
	}
	api, err := c.newClient(cfg, logging.Nop())
	if err != nil {
		return err
	}

	key := detailcache.Key{
		Provider:  providers.Normalize(fs.Arg(0)),
		SessionID: strings.TrimSpace(fs.Arg(1)),
		Mode:      mode,
	}
	cache := detailcache.New(api, detailcache.WithBaseContext(context.Background()))
	defer cache.Close()
	cache.RequestDetail("show", key, false)
	cache.Wait()

	state := cache.State(key)
	switch state.Status {
	case detailcache.StatusReady:
	case detailcache.StatusError:
		return errors.New(state.Err)
	default:
		return fmt.Errorf("no detail for %s", key)
	}
	if resolvedFormat != formatText {
		// Raw JSON payloads only encode readably once decoded generically.
		payload, err := genericPayload(state.Response)
		if err != nil {
			return err
		}
		return writeStructured(c.stdout, resolvedFormat, payload)
	}
	printDetail(c.stdout, state.Response)
	return nil
}

func printDetail(output io.Writer, resp *types.SessionDetailResponse) {
	fmt.Fprintf(output, "%s %s (%s)\n", providers.Label(resp.Provider), resp.SessionID, resp.Mode.Label())
	if len(resp.Events) == 0 {
		fmt.Fprintln(output, "no events")
		return
	}
	for _, event := range resp.Events {
		label := event.Label
		if strings.TrimSpace(label) == "" {
			label = event.Actor
		}
		fmt.Fprintf(output, "\n[%s]\n", label)
		if text := strings.TrimSpace(event.DisplayText()); text != "" {
			fmt.Fprintln(output, text)
		}
		if event.Tool != nil {
			fmt.Fprintf(output, "tool %s %s\n", event.Tool.Name, event.Tool.Status)
		}
	}
}
