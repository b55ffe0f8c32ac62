package sessionindex

import (
	"strings"
	"time"

	"agentdev/internal/types"
)

// Filter keeps sessions whose identifying text contains term,
// case-insensitively. A blank term returns sessions unchanged.
func Filter(sessions []types.SessionSummary, term string) []types.SessionSummary {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return sessions
	}
	out := make([]types.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		if strings.Contains(searchText(session), needle) {
			out = append(out, session)
		}
	}
	return out
}

func searchText(session types.SessionSummary) string {
	return strings.ToLower(strings.Join([]string{
		session.SessionID,
		session.Provider,
		session.LatestUserMessage(),
		session.WorktreeName,
		session.WorktreeID,
		session.RepoName,
		session.Branch,
		session.WorkingDir,
	}, "\n"))
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp reads the ISO-8601 forms the backend emits. Anything else
// yields the zero time, which orders before every real timestamp.
func ParseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

// FlattenWorktrees collects the sessions embedded in a worktree listing,
// stamping worktree identity onto sessions that do not carry it.
func FlattenWorktrees(worktrees []types.WorktreeSummary) []types.SessionSummary {
	var out []types.SessionSummary
	for _, worktree := range worktrees {
		for _, session := range worktree.Sessions {
			if strings.TrimSpace(session.WorktreeID) == "" {
				session.WorktreeID = worktree.ID
			}
			if strings.TrimSpace(session.WorktreeName) == "" {
				session.WorktreeName = worktree.Name
			}
			if strings.TrimSpace(session.RepoName) == "" {
				session.RepoName = worktree.RepoName
			}
			if strings.TrimSpace(session.Branch) == "" {
				session.Branch = worktree.Branch
			}
			if session.WorkingDir == "" {
				session.WorkingDir = worktree.Path
			}
			out = append(out, session)
		}
	}
	return out
}

// Merge appends extra to sessions; identity dedup happens in BuildIndex, so
// the first listing wins.
func Merge(sessions []types.SessionSummary, extra ...[]types.SessionSummary) []types.SessionSummary {
	out := append([]types.SessionSummary(nil), sessions...)
	for _, list := range extra {
		out = append(out, list...)
	}
	return out
}
