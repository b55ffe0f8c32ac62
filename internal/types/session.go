package types

import "strings"

// SessionSummary is one captured agent conversation as listed by the backend.
type SessionSummary struct {
	Provider            string   `json:"provider"`
	SessionID           string   `json:"session_id"`
	WorktreeID          string   `json:"worktree_id,omitempty"`
	WorktreeName        string   `json:"worktree_name,omitempty"`
	WorkingDir          string   `json:"working_dir,omitempty"`
	RepoName            string   `json:"repo_name,omitempty"`
	Branch              string   `json:"branch,omitempty"`
	LastTimestamp       string   `json:"last_timestamp,omitempty"`
	UserMessageCount    int      `json:"user_message_count"`
	UserMessagesPreview []string `json:"user_messages_preview,omitempty"`
	LastUserMessage     string   `json:"last_user_message,omitempty"`
}

// Key is the identity of a session across providers.
func (s SessionSummary) Key() string {
	return SessionKey(s.Provider, s.SessionID)
}

func SessionKey(provider, sessionID string) string {
	return provider + "-" + sessionID
}

// PreviewTruncated reports whether the preview holds fewer messages than the
// session declares.
func (s SessionSummary) PreviewTruncated() bool {
	return len(s.UserMessagesPreview) < s.UserMessageCount
}

// LatestUserMessage prefers the full last message and falls back to the
// tail of the preview.
func (s SessionSummary) LatestUserMessage() string {
	if msg := strings.TrimSpace(s.LastUserMessage); msg != "" {
		return s.LastUserMessage
	}
	if n := len(s.UserMessagesPreview); n > 0 {
		return s.UserMessagesPreview[n-1]
	}
	return ""
}

type ProviderSummary struct {
	Name         string `json:"name"`
	Label        string `json:"label,omitempty"`
	SessionCount int    `json:"session_count,omitempty"`
}

type SessionsResponse struct {
	Sessions  []SessionSummary  `json:"sessions"`
	Providers []ProviderSummary `json:"providers,omitempty"`
}
