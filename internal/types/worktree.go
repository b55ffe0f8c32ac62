package types

// WorktreeSummary is a backend-managed git worktree with the sessions that ran in it.
type WorktreeSummary struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Branch   string           `json:"branch,omitempty"`
	RepoName string           `json:"repo_name,omitempty"`
	Path     string           `json:"path,omitempty"`
	Sessions []SessionSummary `json:"sessions,omitempty"`
}

type WorktreesResponse struct {
	Worktrees []WorktreeSummary `json:"worktrees"`
}
