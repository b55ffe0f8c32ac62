package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"agentdev/internal/config"
	"agentdev/internal/types"
)

func newTestClient(url string) *Client {
	c := NewWithBaseURL(url, "token")
	c.http = &http.Client{Timeout: 2 * time.Second}
	return c
}

func TestClientListSessionsSendsToken(t *testing.T) {
	var seenAuth, seenPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		seenPath = r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sessions":[{"provider":"codex","session_id":"s1","user_message_count":2,"user_messages_preview":["a"]}],"providers":[{"name":"codex"}]}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions error: %v", err)
	}
	if seenPath != "/api/sessions" || seenAuth != "Bearer token" {
		t.Fatalf("unexpected request: path=%s auth=%q", seenPath, seenAuth)
	}
	if len(resp.Sessions) != 1 || !resp.Sessions[0].PreviewTruncated() || len(resp.Providers) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClientOmitsAuthWithoutToken(t *testing.T) {
	var seenAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"worktrees":[]}`))
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL+"/", "")
	if _, err := c.ListWorktrees(context.Background()); err != nil {
		t.Fatalf("ListWorktrees error: %v", err)
	}
	if seenAuth != "" {
		t.Fatalf("expected no auth header, got %q", seenAuth)
	}
}

func TestClientWorktreeGitEscapesID(t *testing.T) {
	var seenPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"commit_diff":{"reference":"origin/main","diff":"diff --git a/x b/x\n+a\n"},"staged":[{"path":"x","status":"M","diff":"+a\n"}],"unstaged":[],"untracked":[]}`))
	}))
	defer server.Close()

	details, err := newTestClient(server.URL).WorktreeGit(context.Background(), "wt/1")
	if err != nil {
		t.Fatalf("WorktreeGit error: %v", err)
	}
	if seenPath != "/api/worktrees/wt%2F1/git" {
		t.Fatalf("unexpected path: %s", seenPath)
	}
	if details.CommitDiff == nil || details.CommitDiff.Reference != "origin/main" || len(details.Staged) != 1 {
		t.Fatalf("unexpected details: %+v", details)
	}
	if _, err := newTestClient(server.URL).WorktreeGit(context.Background(), " "); err == nil {
		t.Fatalf("expected error for blank worktree id")
	}
}

func TestClientSessionDetailSendsMode(t *testing.T) {
	var seenPath, seenMode string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPath = r.URL.Path
		seenMode = r.URL.Query().Get("mode")
		_, _ = w.Write([]byte(`{"provider":"claude","session_id":"abc","events":[{"actor":"user","category":"message","label":"User","text":"hi","summary_text":"hi"},{"actor":"assistant","category":"message","label":"Claude","text":"","summary_text":"hello","tool":{"name":"bash","status":"ok"}}]}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).FetchSessionDetail(context.Background(), "claude", "abc", types.DetailModeFull)
	if err != nil {
		t.Fatalf("FetchSessionDetail error: %v", err)
	}
	if seenPath != "/api/sessions/claude/abc" || seenMode != "full" {
		t.Fatalf("unexpected request: path=%s mode=%s", seenPath, seenMode)
	}
	if resp.Mode != types.DetailModeFull {
		t.Fatalf("expected mode to default to requested mode, got %q", resp.Mode)
	}
	if len(resp.Events) != 2 || resp.Events[1].Tool == nil || resp.Events[1].DisplayText() != "hello" {
		t.Fatalf("unexpected events: %+v", resp.Events)
	}
	if got := resp.UserMessages(); len(got) != 1 || got[0] != "hi" {
		t.Fatalf("unexpected user messages: %v", got)
	}
}

func TestClientDecodesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/sessions" {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"backend down"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.ListSessions(context.Background())
	apiErr := AsAPIError(err)
	if apiErr == nil || apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "backend down" {
		t.Fatalf("unexpected error: %v", err)
	}
	if err.Error() != "api error (502): backend down" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	_, err = c.ListWorktrees(context.Background())
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClientSessionDetailCanceled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestClient(server.URL).SessionDetail(ctx, "codex", "s1", types.DetailModeUserOnly)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewReadsTokenFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.MkdirAll(filepath.Join(home, ".agentdev"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(home, ".agentdev", "token"), []byte("from-file\n"), 0o600); err != nil {
		t.Fatalf("write token: %v", err)
	}
	c, err := New(config.DefaultConfig())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if c.token != "from-file" || c.BaseURL() != "http://127.0.0.1:3000" {
		t.Fatalf("unexpected client: token=%q base=%s", c.token, c.BaseURL())
	}

	cfg := config.DefaultConfig()
	cfg.API.Token = "from-config"
	c, err = New(cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if c.token != "from-config" {
		t.Fatalf("config token should win, got %q", c.token)
	}
}
