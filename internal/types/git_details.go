package types

// FileDiff is one file-level change reported by the worktree git endpoint.
type FileDiff struct {
	Path        string `json:"path"`
	DisplayPath string `json:"display_path,omitempty"`
	Status      string `json:"status,omitempty"`
	Diff        string `json:"diff"`
}

// Label returns the display path when the backend supplied one.
func (f FileDiff) Label() string {
	if f.DisplayPath != "" {
		return f.DisplayPath
	}
	return f.Path
}

type CommitDiff struct {
	Reference string `json:"reference"`
	Diff      string `json:"diff"`
}

type WorktreeGitDetails struct {
	CommitDiff *CommitDiff `json:"commit_diff,omitempty"`
	Staged     []FileDiff  `json:"staged"`
	Unstaged   []FileDiff  `json:"unstaged"`
	Untracked  []FileDiff  `json:"untracked"`
}
