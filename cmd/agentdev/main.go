package main

import (
	"fmt"
	"os"
)

const usageText = `agentdev is a read-only dashboard for agent sessions and worktree changes.

Usage:
  agentdev <command> [flags]

Commands:
  sessions   list sessions of a group (worktree, directory or all)
  changes    list diff entries of a worktree
  show       print one session's detail
  config     print configuration (effective or defaults)
  ui         run the terminal dashboard
  version    print the build version
  help       show help

Flags:
  -h, --help   show help

Examples:
  agentdev sessions --search parser
  agentdev sessions --groups --format yaml
  agentdev changes wt-1 --format json
  agentdev show codex 0193f7 --mode conversation
  agentdev config --default --format toml
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}
