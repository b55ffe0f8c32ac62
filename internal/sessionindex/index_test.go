package sessionindex

import (
	"testing"
	"time"

	"agentdev/internal/types"
)

func session(provider, id string) types.SessionSummary {
	return types.SessionSummary{Provider: provider, SessionID: id}
}

func TestBuildIndexDeduplicatesFirstWins(t *testing.T) {
	first := session("codex", "s1")
	first.RepoName = "first"
	dup := session("codex", "s1")
	dup.RepoName = "second"
	dup.WorktreeID = "wt-1"
	idx := BuildIndex([]types.SessionSummary{first, dup, session("claude", "s1")})

	if got := idx.GroupsByID[AllGroupID].Count; got != 2 {
		t.Fatalf("expected all count 2, got %d", got)
	}
	if idx.Duplicates != 1 {
		t.Fatalf("expected one duplicate, got %d", idx.Duplicates)
	}
	if idx.SessionByKey["codex-s1"].RepoName != "first" {
		t.Fatalf("expected first occurrence to win")
	}
	if _, ok := idx.GroupsByID[WorktreeGroupID("wt-1")]; ok {
		t.Fatalf("dropped duplicate must not create a group")
	}
	for id, members := range idx.SessionsByGroup {
		seen := map[string]bool{}
		for _, member := range members {
			if seen[member.Key()] {
				t.Fatalf("group %s holds %s twice", id, member.Key())
			}
			seen[member.Key()] = true
		}
	}
}

func TestBuildIndexWorktreeTakesPrecedence(t *testing.T) {
	s := session("codex", "s1")
	s.WorktreeID = "wt-1"
	s.WorktreeName = "feature"
	s.WorkingDir = "/repo/feature"
	idx := BuildIndex([]types.SessionSummary{s})

	group, ok := idx.GroupsByID["worktree:wt-1"]
	if !ok {
		t.Fatalf("expected worktree group, got %+v", idx.Groups)
	}
	if group.Label != "feature" || group.Description != "/repo/feature" {
		t.Fatalf("unexpected worktree group: %+v", group)
	}
	for _, g := range idx.Groups {
		if g.Kind == KindDirectory {
			t.Fatalf("session must not be classified under a directory: %+v", g)
		}
	}
}

func TestBuildIndexWorktreeDescriptionFallsBackToRepoBranch(t *testing.T) {
	s := session("codex", "s1")
	s.WorktreeID = "wt-1"
	s.RepoName = "webapp"
	s.Branch = "main"
	idx := BuildIndex([]types.SessionSummary{s})
	group := idx.GroupsByID["worktree:wt-1"]
	if group.Label != "wt-1" || group.Description != "webapp/main" {
		t.Fatalf("unexpected group: %+v", group)
	}
}

func TestBuildIndexNormalizesDirectories(t *testing.T) {
	a := session("codex", "a")
	a.WorkingDir = "/tmp/x/"
	b := session("codex", "b")
	b.WorkingDir = "/tmp/x"
	c := session("codex", "c")
	c.WorkingDir = `\tmp\x`
	root := session("codex", "d")
	root.WorkingDir = "   "
	idx := BuildIndex([]types.SessionSummary{a, b, c, root})

	group, ok := idx.GroupsByID["directory:/tmp/x"]
	if !ok || group.Count != 3 {
		t.Fatalf("expected one directory group with 3 members, got %+v", idx.Groups)
	}
	if _, ok := idx.GroupsByID["directory:__root__"]; !ok {
		t.Fatalf("expected root sentinel group, got %+v", idx.Groups)
	}
}

func TestBuildIndexUnassigned(t *testing.T) {
	idx := BuildIndex([]types.SessionSummary{session("codex", "a"), session("claude", "b")})
	group, ok := idx.GroupsByID[UnassignedGroupID]
	if !ok || group.Count != 2 || group.Kind != KindUnassigned {
		t.Fatalf("expected unassigned group of 2, got %+v", idx.Groups)
	}
}

func TestBuildIndexSortOrder(t *testing.T) {
	dirOld := session("codex", "d1")
	dirOld.WorkingDir = "/b"
	dirOld.LastTimestamp = "2026-01-01T00:00:00Z"
	dirNew := session("codex", "d2")
	dirNew.WorkingDir = "/a"
	dirNew.LastTimestamp = "2026-03-01T00:00:00Z"
	wtTieB := session("codex", "w1")
	wtTieB.WorktreeID = "w1"
	wtTieB.WorktreeName = "beta"
	wtTieB.LastTimestamp = "2026-02-01T00:00:00Z"
	wtTieA := session("codex", "w2")
	wtTieA.WorktreeID = "w2"
	wtTieA.WorktreeName = "alpha"
	wtTieA.LastTimestamp = "2026-02-01T00:00:00Z"
	loose := session("codex", "u1")
	loose.LastTimestamp = "2027-01-01T00:00:00Z"

	idx := BuildIndex([]types.SessionSummary{dirOld, loose, dirNew, wtTieB, wtTieA})
	want := []string{"all", "worktree:w2", "worktree:w1", "directory:/a", "directory:/b", "unassigned"}
	if len(idx.Groups) != len(want) {
		t.Fatalf("expected %d groups, got %+v", len(want), idx.Groups)
	}
	for i, id := range want {
		if idx.Groups[i].ID != id {
			t.Fatalf("group %d: expected %s, got %s", i, id, idx.Groups[i].ID)
		}
	}
	if idx.DefaultGroupID != AllGroupID {
		t.Fatalf("expected default all, got %s", idx.DefaultGroupID)
	}
	wantLatest := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	if !idx.GroupsByID[AllGroupID].LatestActivity.Equal(wantLatest) {
		t.Fatalf("unexpected latest activity: %v", idx.GroupsByID[AllGroupID].LatestActivity)
	}
}

func TestBuildIndexMembersSortedByTimestampStable(t *testing.T) {
	a := session("codex", "a")
	a.LastTimestamp = "garbage"
	b := session("codex", "b")
	b.LastTimestamp = "2026-05-01T10:00:00Z"
	c := session("codex", "c")
	d := session("codex", "d")
	d.LastTimestamp = "2026-05-01T12:00:00.5+02:00"
	idx := BuildIndex([]types.SessionSummary{a, b, c, d})
	members := idx.SessionsByGroup[AllGroupID]
	want := []string{"d", "b", "a", "c"}
	for i, id := range want {
		if members[i].SessionID != id {
			t.Fatalf("member %d: expected %s, got %s", i, id, members[i].SessionID)
		}
	}
}

func TestBuildIndexEmpty(t *testing.T) {
	idx := BuildIndex(nil)
	if idx.DefaultGroupID != AllGroupID {
		t.Fatalf("expected default all, got %q", idx.DefaultGroupID)
	}
	if len(idx.Groups) != 1 || idx.Groups[0].Count != 0 {
		t.Fatalf("expected only empty all group, got %+v", idx.Groups)
	}
	if members := idx.SessionsByGroup[AllGroupID]; members == nil || len(members) != 0 {
		t.Fatalf("expected empty member list for all, got %#v", members)
	}
}

func TestGroupCountsRoundTrip(t *testing.T) {
	var sessions []types.SessionSummary
	for i, dir := range []string{"/a", "/b", "", "/a", ""} {
		s := session("codex", string(rune('a'+i)))
		s.WorkingDir = dir
		if i == 4 {
			s.WorktreeID = "wt"
		}
		sessions = append(sessions, s)
	}
	idx := BuildIndex(sessions)
	sum := 0
	for _, group := range idx.Groups {
		if got := len(idx.SessionsByGroup[group.ID]); got != group.Count {
			t.Fatalf("group %s count %d != members %d", group.ID, group.Count, got)
		}
		if group.ID != AllGroupID {
			sum += group.Count
		}
	}
	if sum != idx.GroupsByID[AllGroupID].Count {
		t.Fatalf("sum of groups %d != all %d", sum, idx.GroupsByID[AllGroupID].Count)
	}
}

func TestMembersFallsBackToDefault(t *testing.T) {
	s := session("codex", "a")
	s.LastUserMessage = "Fix the flaky Test"
	idx := BuildIndex([]types.SessionSummary{s, session("claude", "b")})
	if got := idx.Members("missing", ""); len(got) != 2 {
		t.Fatalf("expected default group members, got %+v", got)
	}
	got := idx.Members(AllGroupID, "flaky test")
	if len(got) != 1 || got[0].SessionID != "a" {
		t.Fatalf("unexpected filtered members: %+v", got)
	}
}
