package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"agentdev/internal/client"
	"agentdev/internal/config"
	"agentdev/internal/logging"
	"agentdev/internal/providers"
	"agentdev/internal/sessionindex"
	"agentdev/internal/types"
)

type SessionsCommand struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	newClient  clientFactory
}

type groupOutput struct {
	ID             string `json:"id" yaml:"id"`
	Label          string `json:"label" yaml:"label"`
	Kind           string `json:"kind" yaml:"kind"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	Count          int    `json:"count" yaml:"count"`
	LatestActivity string `json:"latest_activity,omitempty" yaml:"latest_activity,omitempty"`
}

type sessionOutput struct {
	Key              string `json:"key" yaml:"key"`
	Provider         string `json:"provider" yaml:"provider"`
	SessionID        string `json:"session_id" yaml:"session_id"`
	WorktreeID       string `json:"worktree_id,omitempty" yaml:"worktree_id,omitempty"`
	WorkingDir       string `json:"working_dir,omitempty" yaml:"working_dir,omitempty"`
	LastTimestamp    string `json:"last_timestamp,omitempty" yaml:"last_timestamp,omitempty"`
	UserMessageCount int    `json:"user_message_count" yaml:"user_message_count"`
	LastUserMessage  string `json:"last_user_message,omitempty" yaml:"last_user_message,omitempty"`
}

type sessionsOutput struct {
	Group      groupOutput     `json:"group" yaml:"group"`
	Sessions   []sessionOutput `json:"sessions" yaml:"sessions"`
	Duplicates int             `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
}

func NewSessionsCommand(stdout, stderr io.Writer, loadConfig func() (config.Config, error), newClient clientFactory) *SessionsCommand {
	return &SessionsCommand{
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: loadConfig,
		newClient:  newClient,
	}
}

func (c *SessionsCommand) Run(args []string) error {
	fs := flag.NewFlagSet("sessions", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	groupID := fs.String("group", sessionindex.AllGroupID, "group id to list (see --groups)")
	search := fs.String("search", "", "case-insensitive filter")
	listGroups := fs.Bool("groups", false, "list groups instead of sessions")
	format := fs.String("format", formatTable, "output format: table|json|yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
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
	snapshot, err := client.NewSnapshotLoader(api, nil).Load(context.Background())
	if err != nil {
		return err
	}
	idx := snapshot.Index()

	if *listGroups {
		groups := make([]groupOutput, 0, len(idx.Groups))
		for _, group := range idx.Groups {
			groups = append(groups, newGroupOutput(group))
		}
		if resolvedFormat != formatTable {
			return writeStructured(c.stdout, resolvedFormat, groups)
		}
		printGroups(c.stdout, groups)
		return nil
	}

	group, ok := idx.Group(*groupID)
	if !ok {
		return fmt.Errorf("unknown group: %s", *groupID)
	}
	if group.ID != *groupID {
		fmt.Fprintf(c.stderr, "group %q not found, showing %q\n", *groupID, group.ID)
	}
	out := sessionsOutput{Group: newGroupOutput(group), Sessions: []sessionOutput{}, Duplicates: idx.Duplicates}
	for _, session := range idx.Members(group.ID, *search) {
		out.Sessions = append(out.Sessions, newSessionOutput(session))
	}
	if resolvedFormat != formatTable {
		return writeStructured(c.stdout, resolvedFormat, out)
	}
	printSessions(c.stdout, out)
	return nil
}

func newGroupOutput(group sessionindex.Group) groupOutput {
	out := groupOutput{
		ID:          group.ID,
		Label:       group.Label,
		Kind:        string(group.Kind),
		Description: group.Description,
		Count:       group.Count,
	}
	if !group.LatestActivity.IsZero() {
		out.LatestActivity = group.LatestActivity.UTC().Format(time.RFC3339)
	}
	return out
}

func newSessionOutput(session types.SessionSummary) sessionOutput {
	return sessionOutput{
		Key:              session.Key(),
		Provider:         session.Provider,
		SessionID:        session.SessionID,
		WorktreeID:       session.WorktreeID,
		WorkingDir:       session.WorkingDir,
		LastTimestamp:    session.LastTimestamp,
		UserMessageCount: session.UserMessageCount,
		LastUserMessage:  session.LatestUserMessage(),
	}
}

func printGroups(output io.Writer, groups []groupOutput) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tKIND\tCOUNT\tLABEL")
	for _, group := range groups {
		fmt.Fprintf(writer, "%s\t%s\t%d\t%s\n", group.ID, group.Kind, group.Count, cell(group.Label, titleColumnWidth))
	}
	_ = writer.Flush()
}

func printSessions(output io.Writer, out sessionsOutput) {
	fmt.Fprintf(output, "%s (%d)\n", out.Group.Label, out.Group.Count)
	if len(out.Sessions) == 0 {
		fmt.Fprintln(output, "no sessions")
		return
	}
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "PROVIDER\tSESSION\tLAST\tMSGS\tMESSAGE")
	for _, session := range out.Sessions {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%s\n",
			providers.Label(session.Provider),
			cell(session.SessionID, 24),
			cell(session.LastTimestamp, 25),
			session.UserMessageCount,
			cell(session.LastUserMessage, titleColumnWidth),
		)
	}
	_ = writer.Flush()
}
