package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"agentdev/internal/client"
	"agentdev/internal/detailcache"
	"agentdev/internal/types"
)

type snapshotMsg struct {
	snapshot *client.Snapshot
	err      error
}

type gitDetailsMsg struct {
	worktreeID string
	details    *types.WorktreeGitDetails
	err        error
}

type detailUpdatedMsg struct {
	key detailcache.Key
}

type refreshTickMsg struct{}

func loadSnapshotCmd(ctx context.Context, source SnapshotSource) tea.Cmd {
	if source == nil {
		return nil
	}
	return func() tea.Msg {
		snapshot, err := source.Load(ctx)
		return snapshotMsg{snapshot: snapshot, err: err}
	}
}

func loadGitCmd(ctx context.Context, source GitSource, worktreeID string) tea.Cmd {
	if source == nil || worktreeID == "" {
		return nil
	}
	return func() tea.Msg {
		details, err := source.WorktreeGit(ctx, worktreeID)
		return gitDetailsMsg{worktreeID: worktreeID, details: details, err: err}
	}
}

func waitForDetailUpdate(ch <-chan detailcache.Key) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		key, ok := <-ch
		if !ok {
			return nil
		}
		return detailUpdatedMsg{key: key}
	}
}

func refreshTickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}
