package main

import (
	"context"

	"agentdev/internal/client"
	"agentdev/internal/config"
	"agentdev/internal/logging"
	"agentdev/internal/types"
)

type clientFactory func(cfg config.Config, logger logging.Logger) (commandClient, error)

// commandClient is the slice of the backend API the commands use. It also
// satisfies the snapshot loader, the dashboard's git source and the detail
// cache fetcher.
type commandClient interface {
	ListSessions(ctx context.Context) (*types.SessionsResponse, error)
	ListWorktrees(ctx context.Context) ([]types.WorktreeSummary, error)
	WorktreeGit(ctx context.Context, worktreeID string) (*types.WorktreeGitDetails, error)
	FetchSessionDetail(ctx context.Context, provider, sessionID string, mode types.DetailMode) (*types.SessionDetailResponse, error)
}

func newAPIClient(cfg config.Config, logger logging.Logger) (commandClient, error) {
	api, err := client.New(cfg, client.WithLogger(logging.WithComponent(logger, "client")))
	if err != nil {
		return nil, err
	}
	return api, nil
}
