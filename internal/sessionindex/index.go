// Package sessionindex deduplicates a flat session listing and classifies
// it into display groups: everything, per worktree, per working directory
// and a catch-all for sessions with neither.
package sessionindex

import (
	"sort"
	"strings"
	"time"

	"agentdev/internal/types"
	"agentdev/internal/workspacepaths"
)

type Kind string

const (
	KindAll        Kind = "all"
	KindWorktree   Kind = "worktree"
	KindDirectory  Kind = "directory"
	KindUnassigned Kind = "unassigned"
)

const (
	AllGroupID        = "all"
	UnassignedGroupID = "unassigned"

	worktreeGroupPrefix  = "worktree:"
	directoryGroupPrefix = "directory:"
)

var kindRank = map[Kind]int{
	KindAll:        0,
	KindWorktree:   1,
	KindDirectory:  2,
	KindUnassigned: 3,
}

// Group is one classification bucket. Count always equals the number of
// members recorded for ID in the owning Index.
type Group struct {
	ID             string    `json:"id"`
	Label          string    `json:"label"`
	Description    string    `json:"description,omitempty"`
	Kind           Kind      `json:"kind"`
	Count          int       `json:"count"`
	LatestActivity time.Time `json:"latest_activity"`
	WorktreeID     string    `json:"worktree_id,omitempty"`
	WorkingDir     string    `json:"working_dir,omitempty"`
	WorkingDirKey  string    `json:"working_dir_key,omitempty"`
}

type Index struct {
	Groups          []Group                           `json:"groups"`
	GroupsByID      map[string]Group                  `json:"-"`
	SessionsByGroup map[string][]types.SessionSummary `json:"-"`
	SessionByKey    map[string]types.SessionSummary   `json:"-"`
	DefaultGroupID  string                            `json:"default_group_id"`
	Duplicates      int                               `json:"duplicates,omitempty"`
}

func WorktreeGroupID(worktreeID string) string {
	return worktreeGroupPrefix + worktreeID
}

func DirectoryGroupID(workingDir string) string {
	return directoryGroupPrefix + workspacepaths.NormalizeKey(workingDir)
}

// BuildIndex never fails; malformed timestamps only affect ordering.
func BuildIndex(sessions []types.SessionSummary) *Index {
	idx := &Index{
		GroupsByID:      map[string]Group{},
		SessionsByGroup: map[string][]types.SessionSummary{},
		SessionByKey:    map[string]types.SessionSummary{},
	}
	groups := map[string]*Group{
		AllGroupID: {ID: AllGroupID, Label: "All Sessions", Kind: KindAll},
	}
	order := []string{AllGroupID}
	activity := map[string]time.Time{}

	for _, session := range sessions {
		key := session.Key()
		if _, exists := idx.SessionByKey[key]; exists {
			idx.Duplicates++
			continue
		}
		idx.SessionByKey[key] = session
		ts := ParseTimestamp(session.LastTimestamp)
		activity[key] = ts

		assigned := classify(session)
		group, ok := groups[assigned.ID]
		if !ok {
			group = &assigned
			groups[assigned.ID] = group
			order = append(order, assigned.ID)
		}
		for _, target := range []*Group{groups[AllGroupID], group} {
			target.Count++
			if ts.After(target.LatestActivity) {
				target.LatestActivity = ts
			}
			idx.SessionsByGroup[target.ID] = append(idx.SessionsByGroup[target.ID], session)
		}
	}
	// The all group exists even when nothing was indexed.
	if _, ok := idx.SessionsByGroup[AllGroupID]; !ok {
		idx.SessionsByGroup[AllGroupID] = []types.SessionSummary{}
	}

	idx.Groups = make([]Group, 0, len(order))
	for _, id := range order {
		idx.Groups = append(idx.Groups, *groups[id])
	}
	sort.SliceStable(idx.Groups, func(i, j int) bool {
		return groupLess(idx.Groups[i], idx.Groups[j])
	})
	for _, group := range idx.Groups {
		idx.GroupsByID[group.ID] = group
	}
	for id, members := range idx.SessionsByGroup {
		sortMembers(members, activity)
		idx.SessionsByGroup[id] = members
	}

	idx.DefaultGroupID = AllGroupID
	if len(idx.Groups) > 0 {
		idx.DefaultGroupID = idx.Groups[0].ID
	}
	return idx
}

// classify returns the non-all group a session belongs to, with its
// descriptive fields filled in but no members counted.
func classify(session types.SessionSummary) Group {
	if worktreeID := strings.TrimSpace(session.WorktreeID); worktreeID != "" {
		label := strings.TrimSpace(session.WorktreeName)
		if label == "" {
			label = worktreeID
		}
		return Group{
			ID:          WorktreeGroupID(worktreeID),
			Label:       label,
			Description: worktreeDescription(session),
			Kind:        KindWorktree,
			WorktreeID:  worktreeID,
			WorkingDir:  session.WorkingDir,
		}
	}
	if session.WorkingDir != "" {
		key := workspacepaths.NormalizeKey(session.WorkingDir)
		return Group{
			ID:            directoryGroupPrefix + key,
			Label:         workspacepaths.Label(key),
			Kind:          KindDirectory,
			WorkingDir:    session.WorkingDir,
			WorkingDirKey: key,
		}
	}
	return Group{ID: UnassignedGroupID, Label: "Unassigned", Kind: KindUnassigned}
}

func worktreeDescription(session types.SessionSummary) string {
	if dir := strings.TrimSpace(session.WorkingDir); dir != "" {
		return dir
	}
	repo := strings.TrimSpace(session.RepoName)
	branch := strings.TrimSpace(session.Branch)
	switch {
	case repo != "" && branch != "":
		return repo + "/" + branch
	case repo != "":
		return repo
	default:
		return branch
	}
}

func groupLess(left, right Group) bool {
	if kindRank[left.Kind] != kindRank[right.Kind] {
		return kindRank[left.Kind] < kindRank[right.Kind]
	}
	if !left.LatestActivity.Equal(right.LatestActivity) {
		return left.LatestActivity.After(right.LatestActivity)
	}
	return left.Label < right.Label
}

func sortMembers(members []types.SessionSummary, activity map[string]time.Time) {
	sort.SliceStable(members, func(i, j int) bool {
		return activity[members[i].Key()].After(activity[members[j].Key()])
	})
}

// Members returns the sessions of groupID matching term. An unknown group
// falls back to the default group.
func (idx *Index) Members(groupID, term string) []types.SessionSummary {
	if idx == nil {
		return nil
	}
	members, ok := idx.SessionsByGroup[groupID]
	if !ok {
		members = idx.SessionsByGroup[idx.DefaultGroupID]
	}
	return Filter(members, term)
}

// Group looks up a group, falling back to the default group.
func (idx *Index) Group(groupID string) (Group, bool) {
	if idx == nil {
		return Group{}, false
	}
	if group, ok := idx.GroupsByID[groupID]; ok {
		return group, true
	}
	group, ok := idx.GroupsByID[idx.DefaultGroupID]
	return group, ok
}
