package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"agentdev/internal/sessionindex"
	"agentdev/internal/types"
)

type fakeListing struct {
	sessionCalls atomic.Int32
	gate         chan struct{}
	sessions     []types.SessionSummary
	worktrees    []types.WorktreeSummary
	worktreeErr  error
}

func (f *fakeListing) ListSessions(ctx context.Context) (*types.SessionsResponse, error) {
	f.sessionCalls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	return &types.SessionsResponse{Sessions: f.sessions}, nil
}

func (f *fakeListing) ListWorktrees(ctx context.Context) ([]types.WorktreeSummary, error) {
	if f.worktreeErr != nil {
		return nil, f.worktreeErr
	}
	return f.worktrees, nil
}

func TestSnapshotLoaderMergesListings(t *testing.T) {
	api := &fakeListing{
		sessions: []types.SessionSummary{{Provider: "codex", SessionID: "s1", WorkingDir: "/a"}},
		worktrees: []types.WorktreeSummary{{
			ID:   "wt-1",
			Name: "feature",
			Sessions: []types.SessionSummary{
				{Provider: "codex", SessionID: "s1"},
				{Provider: "claude", SessionID: "s2"},
			},
		}},
	}
	snapshot, err := NewSnapshotLoader(api, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	idx := snapshot.Index()
	if idx.GroupsByID[sessionindex.AllGroupID].Count != 2 || idx.Duplicates != 1 {
		t.Fatalf("unexpected index: %+v", idx.Groups)
	}
	if idx.SessionByKey["codex-s1"].WorkingDir != "/a" {
		t.Fatalf("flat listing should win for duplicates")
	}
	if idx.GroupsByID[sessionindex.WorktreeGroupID("wt-1")].Count != 1 {
		t.Fatalf("expected worktree-embedded session grouped under worktree")
	}
	if _, ok := snapshot.Worktree("wt-1"); !ok {
		t.Fatalf("expected worktree lookup")
	}
}

func TestSnapshotLoaderToleratesMissingWorktreeEndpoint(t *testing.T) {
	api := &fakeListing{worktreeErr: &APIError{StatusCode: http.StatusNotFound, Message: "not found"}}
	if _, err := NewSnapshotLoader(api, nil).Load(context.Background()); err != nil {
		t.Fatalf("expected 404 to be tolerated, got %v", err)
	}
	api.worktreeErr = errors.New("boom")
	if _, err := NewSnapshotLoader(api, nil).Load(context.Background()); err == nil {
		t.Fatalf("expected worktree failure to surface")
	}
}

func TestSnapshotLoaderCoalescesConcurrentLoads(t *testing.T) {
	api := &fakeListing{gate: make(chan struct{})}
	loader := NewSnapshotLoader(api, nil)

	var wg sync.WaitGroup
	results := make([]*Snapshot, 4)
	load := func(i int) {
		defer wg.Done()
		snapshot, err := loader.Load(context.Background())
		if err != nil {
			t.Errorf("Load error: %v", err)
		}
		results[i] = snapshot
	}
	wg.Add(1)
	go load(0)
	deadline := time.Now().Add(2 * time.Second)
	for api.sessionCalls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for first load")
		}
		time.Sleep(time.Millisecond)
	}
	for i := 1; i < len(results); i++ {
		wg.Add(1)
		go load(i)
	}
	time.Sleep(100 * time.Millisecond)
	close(api.gate)
	wg.Wait()

	if calls := api.sessionCalls.Load(); calls != 1 {
		t.Fatalf("expected one shared listing request, got %d", calls)
	}
	for i, snapshot := range results {
		if snapshot != results[0] {
			t.Fatalf("caller %d received a different snapshot", i)
		}
	}
}

func TestSnapshotLoaderCancelledCallerDoesNotFailLaterCaller(t *testing.T) {
	api := &fakeListing{
		gate:     make(chan struct{}),
		sessions: []types.SessionSummary{{Provider: "codex", SessionID: "s1"}},
	}
	loader := NewSnapshotLoader(api, nil)

	ctx1, cancel1 := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := loader.Load(ctx1)
		firstErr <- err
	}()
	deadline := time.Now().Add(2 * time.Second)
	for api.sessionCalls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for first load")
		}
		time.Sleep(time.Millisecond)
	}
	cancel1()
	select {
	case err := <-firstErr:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected cancelled caller to get context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("cancelled caller did not return")
	}

	type result struct {
		snapshot *Snapshot
		err      error
	}
	second := make(chan result, 1)
	go func() {
		snapshot, err := loader.Load(context.Background())
		second <- result{snapshot, err}
	}()
	time.Sleep(50 * time.Millisecond)
	close(api.gate)

	select {
	case got := <-second:
		if got.err != nil {
			t.Fatalf("live caller failed: %v", got.err)
		}
		if len(got.snapshot.Sessions) != 1 {
			t.Fatalf("unexpected snapshot: %+v", got.snapshot)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("live caller did not return")
	}
	if calls := api.sessionCalls.Load(); calls != 1 {
		t.Fatalf("expected live caller to join the in-flight load, got %d requests", calls)
	}
}
