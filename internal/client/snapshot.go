package client

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"agentdev/internal/logging"
	"agentdev/internal/sessionindex"
	"agentdev/internal/types"
)

// Snapshot is one consistent read of the session and worktree listings.
type Snapshot struct {
	Sessions  []types.SessionSummary
	Providers []types.ProviderSummary
	Worktrees []types.WorktreeSummary
	FetchedAt time.Time
}

// AllSessions merges the flat listing with sessions embedded in worktrees.
// The flat listing comes first, so its copy wins during indexing.
func (s *Snapshot) AllSessions() []types.SessionSummary {
	if s == nil {
		return nil
	}
	return sessionindex.Merge(s.Sessions, sessionindex.FlattenWorktrees(s.Worktrees))
}

func (s *Snapshot) Index() *sessionindex.Index {
	return sessionindex.BuildIndex(s.AllSessions())
}

func (s *Snapshot) Worktree(id string) (types.WorktreeSummary, bool) {
	if s == nil {
		return types.WorktreeSummary{}, false
	}
	for _, worktree := range s.Worktrees {
		if worktree.ID == id {
			return worktree, true
		}
	}
	return types.WorktreeSummary{}, false
}

type ListingAPI interface {
	ListSessions(ctx context.Context) (*types.SessionsResponse, error)
	ListWorktrees(ctx context.Context) ([]types.WorktreeSummary, error)
}

// SnapshotLoader fetches both listings in parallel. Overlapping Load calls
// share one round of requests.
type SnapshotLoader struct {
	api    ListingAPI
	logger logging.Logger
	now    func() time.Time
	group  singleflight.Group
}

func NewSnapshotLoader(api ListingAPI, logger logging.Logger) *SnapshotLoader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &SnapshotLoader{api: api, logger: logger, now: time.Now}
}

// Load returns when the shared round finishes or ctx is done. The round runs
// detached from the cancellation of whichever caller started it.
func (l *SnapshotLoader) Load(ctx context.Context) (*Snapshot, error) {
	ch := l.group.DoChan("snapshot", func() (any, error) {
		return l.load(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		l.logger.Debug("snapshot_load_abandoned", logging.F("error", ctx.Err()))
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			l.logger.Debug("snapshot_load_shared")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

func (l *SnapshotLoader) load(ctx context.Context) (*Snapshot, error) {
	snapshot := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := l.api.ListSessions(gctx)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		snapshot.Sessions = resp.Sessions
		snapshot.Providers = resp.Providers
		return nil
	})
	g.Go(func() error {
		worktrees, err := l.api.ListWorktrees(gctx)
		if err != nil {
			// Backends without worktree support answer 404.
			if IsNotFound(err) {
				l.logger.Debug("worktrees_unavailable")
				return nil
			}
			return fmt.Errorf("list worktrees: %w", err)
		}
		snapshot.Worktrees = worktrees
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	snapshot.FetchedAt = l.now()
	l.logger.Debug("snapshot_loaded",
		logging.F("sessions", len(snapshot.Sessions)),
		logging.F("worktrees", len(snapshot.Worktrees)),
	)
	return snapshot, nil
}
