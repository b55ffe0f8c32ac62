package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"agentdev/internal/client"
	"agentdev/internal/config"
	"agentdev/internal/diff"
	"agentdev/internal/logging"
)

type ChangesCommand struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	newClient  clientFactory
}

type changeOutput struct {
	Key       string `json:"key" yaml:"key"`
	Group     string `json:"group" yaml:"group"`
	Title     string `json:"title" yaml:"title"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Status    string `json:"status,omitempty" yaml:"status,omitempty"`
	Additions int    `json:"additions" yaml:"additions"`
	Deletions int    `json:"deletions" yaml:"deletions"`
	Diff      string `json:"diff,omitempty" yaml:"diff,omitempty"`
}

type changesOutput struct {
	WorktreeID string         `json:"worktree_id" yaml:"worktree_id"`
	Additions  int            `json:"additions" yaml:"additions"`
	Deletions  int            `json:"deletions" yaml:"deletions"`
	Entries    []changeOutput `json:"entries" yaml:"entries"`
}

func NewChangesCommand(stdout, stderr io.Writer, loadConfig func() (config.Config, error), newClient clientFactory) *ChangesCommand {
	return &ChangesCommand{
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: loadConfig,
		newClient:  newClient,
	}
}

func (c *ChangesCommand) Run(args []string) error {
	fs := flag.NewFlagSet("changes", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	search := fs.String("search", "", "case-insensitive filter on title, path, group or status")
	withDiff := fs.Bool("diff", false, "include diff text")
	format := fs.String("format", formatTable, "output format: table|json|yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: agentdev changes <worktree-id> [flags]")
	}
	worktreeID := strings.TrimSpace(fs.Arg(0))
	resolvedFormat, err := resolveFormat(*format, formatTable, formatJSON, formatYAML)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	api, err := c.newClient(cfg, logging.Nop())
	if err != nil {
		return err
	}
	details, err := api.WorktreeGit(context.Background(), worktreeID)
	if err != nil {
		if client.IsNotFound(err) {
			return fmt.Errorf("worktree not found: %s", worktreeID)
		}
		return err
	}

	entries := diff.FilterEntries(diff.BuildEntries(details), *search)
	totals := diff.Totals(entries)
	out := changesOutput{
		WorktreeID: worktreeID,
		Additions:  totals.Additions,
		Deletions:  totals.Deletions,
		Entries:    make([]changeOutput, 0, len(entries)),
	}
	for _, entry := range entries {
		item := changeOutput{
			Key:       entry.Key,
			Group:     entry.GroupLabel,
			Title:     entry.Title,
			Path:      entry.Path,
			Status:    entry.StatusLabel,
			Additions: entry.Additions,
			Deletions: entry.Deletions,
		}
		if *withDiff {
			item.Diff = entry.DiffText
		}
		out.Entries = append(out.Entries, item)
	}
	if resolvedFormat != formatTable {
		return writeStructured(c.stdout, resolvedFormat, out)
	}
	printChanges(c.stdout, out)
	return nil
}

func printChanges(output io.Writer, out changesOutput) {
	if len(out.Entries) == 0 {
		fmt.Fprintln(output, "no changes")
		return
	}
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "GROUP\tSTATUS\t+\t-\tTITLE")
	for _, entry := range out.Entries {
		fmt.Fprintf(writer, "%s\t%s\t%d\t%d\t%s\n",
			entry.Group,
			cell(entry.Status, 12),
			entry.Additions,
			entry.Deletions,
			cell(entry.Title, titleColumnWidth),
		)
	}
	fmt.Fprintf(writer, "total\t\t%d\t%d\t%d entries\n", out.Additions, out.Deletions, len(out.Entries))
	_ = writer.Flush()
	for _, entry := range out.Entries {
		if entry.Diff == "" {
			continue
		}
		fmt.Fprintf(output, "\n== %s ==\n%s", entry.Title, entry.Diff)
		if !strings.HasSuffix(entry.Diff, "\n") {
			fmt.Fprintln(output)
		}
	}
}
