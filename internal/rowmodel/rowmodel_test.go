package rowmodel

import (
	"reflect"
	"testing"

	"agentdev/internal/diff"
	"agentdev/internal/sessionindex"
	"agentdev/internal/types"
)

func identity(s string) string { return s }

func TestBuildInterleavesHeadersAndSkipsEmptyGroups(t *testing.T) {
	groups := []Group[string]{
		{Key: "a", Label: "A", Items: []string{"a1", "a2"}},
		{Key: "empty", Label: "Empty"},
		{Key: "b", Label: "B", Items: []string{"b1"}},
	}
	rows := Build(groups, identity, NewOpenState("a2"), "")
	var kinds []Kind
	for _, row := range rows {
		kinds = append(kinds, row.Kind)
	}
	want := []Kind{KindHeader, KindItem, KindItem, KindHeader, KindItem}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("unexpected row kinds: %v", kinds)
	}
	if rows[0].Label != "A" || rows[0].Count != 2 {
		t.Fatalf("unexpected header: %+v", rows[0])
	}
	if rows[1].Open || !rows[2].Open {
		t.Fatalf("unexpected open flags: %+v %+v", rows[1], rows[2])
	}
	if rows[4].Ref != "b1" {
		t.Fatalf("unexpected item ref: %+v", rows[4])
	}
}

func TestBuildEmptyMessages(t *testing.T) {
	rows := Build[string](nil, identity, OpenState{}, "")
	if len(rows) != 1 || rows[0].Kind != KindEmpty || rows[0].Message != "Nothing to show" {
		t.Fatalf("unexpected empty rows: %+v", rows)
	}
	rows = Build([]Group[string]{{Key: "a"}}, identity, OpenState{}, " foo ")
	if len(rows) != 1 || rows[0].Message != `No matches for "foo"` {
		t.Fatalf("unexpected search empty rows: %+v", rows)
	}
	rows = Build[string](nil, identity, OpenState{}, "foo")
	if len(rows) != 1 || rows[0].Message != "Nothing to show" {
		t.Fatalf("empty source with a search should say nothing to show, got %+v", rows)
	}
}

func TestOpenStateUpdatesAreValues(t *testing.T) {
	base := NewOpenState("a")
	toggled := base.Toggle("b")
	if base.IsOpen("b") {
		t.Fatalf("toggle must not modify the receiver")
	}
	if !toggled.IsOpen("a") || !toggled.IsOpen("b") {
		t.Fatalf("unexpected toggled state: %v", toggled.OpenKeys())
	}
	if toggled.Toggle("a").IsOpen("a") {
		t.Fatalf("second toggle should close")
	}
	evicted := toggled.EvictMissing([]string{"b", "c"})
	if !reflect.DeepEqual(evicted.OpenKeys(), []string{"b"}) {
		t.Fatalf("unexpected evicted state: %v", evicted.OpenKeys())
	}
}

func TestReconcileOpensFirstWhenNothingSurvives(t *testing.T) {
	state := NewOpenState("gone").Reconcile([]string{"x", "y"})
	if !reflect.DeepEqual(state.OpenKeys(), []string{"x"}) {
		t.Fatalf("expected first key open, got %v", state.OpenKeys())
	}
	state = NewOpenState("y").Reconcile([]string{"x", "y"})
	if !reflect.DeepEqual(state.OpenKeys(), []string{"y"}) {
		t.Fatalf("expected surviving key kept, got %v", state.OpenKeys())
	}
	if NewOpenState("y").Reconcile(nil).Len() != 0 {
		t.Fatalf("empty input should leave nothing open")
	}
}

func TestModelPreservesOpenStateAcrossRecompute(t *testing.T) {
	m := NewModel(identity)
	if rows := m.Rows(); len(rows) != 1 || rows[0].Kind != KindEmpty {
		t.Fatalf("expected empty placeholder, got %+v", rows)
	}
	m.Recompute([]Group[string]{{Key: "g", Label: "G", Items: []string{"a", "b", "c"}}}, "")
	if !m.Open().IsOpen("a") {
		t.Fatalf("expected default open of first item")
	}
	m.Toggle("c")
	m.Toggle("a")
	rows := m.Recompute([]Group[string]{{Key: "g", Label: "G", Items: []string{"b", "c"}}}, "b")
	if !reflect.DeepEqual(m.Open().OpenKeys(), []string{"c"}) {
		t.Fatalf("expected c to stay open, got %v", m.Open().OpenKeys())
	}
	if rows[1].Open || !rows[2].Open {
		t.Fatalf("unexpected open rows: %+v", rows)
	}
	rows = m.Recompute([]Group[string]{{Key: "g", Label: "G"}}, "zzz")
	if rows[0].Message != `No matches for "zzz"` || m.Open().Len() != 0 {
		t.Fatalf("unexpected rows after empty recompute: %+v", rows)
	}
}

func TestDiffGroupsKeepsFirstSeenOrder(t *testing.T) {
	entries := diff.BuildEntries(&types.WorktreeGitDetails{
		Staged:    []types.FileDiff{{Path: "a", Diff: "+a\n"}},
		Unstaged:  []types.FileDiff{{Path: "b", Diff: "+b\n"}, {Path: "c", Diff: "-c\n"}},
		Untracked: []types.FileDiff{{Path: "d", Diff: "+d\n"}},
	})
	groups := DiffGroups(entries)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[1].Label != "Unstaged" || len(groups[1].Items) != 2 || groups[1].Items[1].Path != "c" {
		t.Fatalf("unexpected unstaged group: %+v", groups[1])
	}
	rows := Build(groups, DiffEntryKey, OpenState{}.Reconcile(ItemKeys(groups, DiffEntryKey)), "")
	if !rows[1].Open || rows[1].Key != "staged:0:a" {
		t.Fatalf("expected first entry open, got %+v", rows[1])
	}
}

func TestSessionGroupsFiltersSelectedGroup(t *testing.T) {
	idx := sessionindex.BuildIndex([]types.SessionSummary{
		{Provider: "codex", SessionID: "a", WorkingDir: "/src/app", LastUserMessage: "deploy"},
		{Provider: "codex", SessionID: "b", WorkingDir: "/src/app"},
		{Provider: "claude", SessionID: "c"},
	})
	groups := SessionGroups(idx, "directory:/src/app", "deploy")
	if len(groups) != 1 || len(groups[0].Items) != 1 || groups[0].Items[0].SessionID != "a" {
		t.Fatalf("unexpected session groups: %+v", groups)
	}
	if groups := SessionGroups(idx, "missing", ""); len(groups) != 1 || groups[0].Key != "all" || len(groups[0].Items) != 3 {
		t.Fatalf("expected fallback to all, got %+v", groups)
	}
	groups = SessionGroups(idx, "unassigned", "nope")
	if len(groups) != 1 || len(groups[0].Items) != 0 {
		t.Fatalf("expected kept group without matches, got %+v", groups)
	}
	if rows := Build(groups, SessionKey, OpenState{}, "nope"); rows[0].Message != `No matches for "nope"` {
		t.Fatalf("unexpected empty message: %+v", rows)
	}
}

func TestEmptySourcesSayNothingToShowDespiteSearch(t *testing.T) {
	idx := sessionindex.BuildIndex(nil)
	groups := SessionGroups(idx, sessionindex.AllGroupID, "deploy")
	if groups != nil {
		t.Fatalf("expected no groups for an empty index, got %+v", groups)
	}
	if rows := Build(groups, SessionKey, OpenState{}, "deploy"); rows[0].Message != "Nothing to show" {
		t.Fatalf("unexpected session empty message: %+v", rows)
	}

	diffGroups := FilterDiffGroups(nil, "main.go")
	if rows := Build(diffGroups, DiffEntryKey, OpenState{}, "main.go"); rows[0].Message != "Nothing to show" {
		t.Fatalf("unexpected diff empty message: %+v", rows)
	}
}

func TestFilterDiffGroupsKeepsGroupsWithoutMatches(t *testing.T) {
	entries := diff.BuildEntries(&types.WorktreeGitDetails{
		Staged:   []types.FileDiff{{Path: "a.go", Diff: "+a\n"}},
		Unstaged: []types.FileDiff{{Path: "b.md", Diff: "+b\n"}},
	})
	groups := FilterDiffGroups(entries, "a.go")
	if len(groups) != 2 || len(groups[0].Items) != 1 || len(groups[1].Items) != 0 {
		t.Fatalf("unexpected filtered groups: %+v", groups)
	}
	rows := Build(FilterDiffGroups(entries, "zzz"), DiffEntryKey, OpenState{}, "zzz")
	if len(rows) != 1 || rows[0].Message != `No matches for "zzz"` {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}
