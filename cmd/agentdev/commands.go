package main

import (
	"context"
	"io"
	"os"

	"agentdev/internal/app"
	"agentdev/internal/config"
)

type commandRunner interface {
	Run(args []string) error
}

type commandWiring struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	newClient  clientFactory
	runUI      func(ctx context.Context, opts app.Options) error
	version    string
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: config.Load,
		newClient:  newAPIClient,
		runUI:      app.Run,
		version:    buildVersion(),
	}
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"sessions": NewSessionsCommand(wiring.stdout, wiring.stderr, wiring.loadConfig, wiring.newClient),
		"changes":  NewChangesCommand(wiring.stdout, wiring.stderr, wiring.loadConfig, wiring.newClient),
		"show":     NewShowCommand(wiring.stdout, wiring.stderr, wiring.loadConfig, wiring.newClient),
		"config":   NewConfigCommand(wiring.stdout, wiring.stderr),
		"ui":       NewUICommand(wiring.stderr, wiring.loadConfig, wiring.newClient, wiring.runUI),
		"version":  NewVersionCommand(wiring.stdout, wiring.version),
	}
}
