package diff

import (
	"fmt"
	"strings"

	"agentdev/internal/types"
)

const (
	GroupCommit    = "commit"
	GroupStaged    = "staged"
	GroupUnstaged  = "unstaged"
	GroupUntracked = "untracked"
)

var groupLabels = map[string]string{
	GroupStaged:    "Staged",
	GroupUnstaged:  "Unstaged",
	GroupUntracked: "Untracked",
}

// Entry is one file-scoped (or commit-scoped) unit of a diff, ready to render.
type Entry struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	GroupKey    string `json:"group_key"`
	GroupLabel  string `json:"group_label"`
	Path        string `json:"path,omitempty"`
	Status      string `json:"status,omitempty"`
	StatusLabel string `json:"status_label,omitempty"`
	DiffText    string `json:"diff_text"`
	Additions   int    `json:"additions"`
	Deletions   int    `json:"deletions"`
	Files       []File `json:"files,omitempty"`
}

func (e Entry) Stats() Stats {
	return Stats{Additions: e.Additions, Deletions: e.Deletions}
}

// SetDiffText replaces the diff and recomputes everything derived from it.
func (e *Entry) SetDiffText(text string) {
	e.DiffText = text
	stats := ComputeStats(text)
	e.Additions = stats.Additions
	e.Deletions = stats.Deletions
	e.Files = ParseFiles(text)
}

func newEntry(key, title, groupKey, groupLabel, path, status, text string) Entry {
	entry := Entry{
		Key:         key,
		Title:       title,
		GroupKey:    groupKey,
		GroupLabel:  groupLabel,
		Path:        path,
		Status:      status,
		StatusLabel: NormalizeStatus(status),
	}
	entry.SetDiffText(text)
	return entry
}

// DivergenceLabel is the group label for the commit divergence diff.
func DivergenceLabel(reference string) string {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return "Divergence"
	}
	return "Divergence vs " + reference
}

// BuildEntries flattens worktree git details in a fixed order: commit
// divergence, staged, unstaged, untracked. Source order is kept within each
// group and empty groups add nothing.
func BuildEntries(details *types.WorktreeGitDetails) []Entry {
	if details == nil {
		return nil
	}
	var entries []Entry
	if commit := details.CommitDiff; commit != nil && strings.TrimSpace(commit.Diff) != "" {
		groupLabel := DivergenceLabel(commit.Reference)
		for i, section := range SplitByFile(commit.Diff) {
			if strings.TrimSpace(section) == "" {
				continue
			}
			title := ExtractLabel(section, fmt.Sprintf("%s (part %d)", groupLabel, i+1))
			oldPath, newPath, _ := headerPaths(section)
			path := newPath
			if path == "" {
				path = oldPath
			}
			key := fmt.Sprintf("%s:%d:%s", GroupCommit, i, path)
			entries = append(entries, newEntry(key, title, GroupCommit, groupLabel, path, InferStatus(section), section))
		}
	}
	entries = appendFileEntries(entries, GroupStaged, details.Staged)
	entries = appendFileEntries(entries, GroupUnstaged, details.Unstaged)
	entries = appendFileEntries(entries, GroupUntracked, details.Untracked)
	return entries
}

func appendFileEntries(entries []Entry, group string, files []types.FileDiff) []Entry {
	label := groupLabels[group]
	for i, file := range files {
		key := fmt.Sprintf("%s:%d:%s", group, i, file.Path)
		title := file.Label()
		if strings.TrimSpace(title) == "" {
			title = ExtractLabel(file.Diff, fmt.Sprintf("%s file %d", label, i+1))
		}
		status := file.Status
		if status == "" && group == GroupUntracked {
			status = "?"
		}
		entries = append(entries, newEntry(key, title, group, label, file.Path, status, file.Diff))
	}
	return entries
}

// FilterEntries keeps entries whose title, path, group or status label
// contains term, case-insensitively. A blank term keeps everything.
func FilterEntries(entries []Entry, term string) []Entry {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		haystack := strings.ToLower(strings.Join([]string{
			entry.Title,
			entry.Path,
			entry.GroupLabel,
			entry.StatusLabel,
		}, " "))
		if strings.Contains(haystack, needle) {
			out = append(out, entry)
		}
	}
	return out
}
