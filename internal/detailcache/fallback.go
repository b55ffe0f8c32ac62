package detailcache

import "agentdev/internal/types"

// Source names where a session's user messages come from.
type Source string

const (
	SourcePreview  Source = "preview"
	SourceFull     Source = "full"
	SourceUserOnly Source = "user_only"
)

// RequestUserMessages resolves user messages for summary with the fewest
// fetches: an untruncated preview is authoritative, a ready full-mode detail
// is reused, and only otherwise is a user_only fetch requested.
func (c *Cache) RequestUserMessages(scopeName string, summary types.SessionSummary) Source {
	source, _ := c.requestUserMessages(scopeName, summary)
	return source
}

func (c *Cache) requestUserMessages(scopeName string, summary types.SessionSummary) (Source, bool) {
	if !summary.PreviewTruncated() {
		return SourcePreview, false
	}
	if c.State(KeyFor(summary, types.DetailModeFull)).Status == StatusReady {
		return SourceFull, false
	}
	started := c.RequestDetail(scopeName, KeyFor(summary, types.DetailModeUserOnly), false)
	return SourceUserOnly, started
}

// UserMessages returns the best user messages available right now. While a
// user_only fetch is outstanding the preview is returned.
func (c *Cache) UserMessages(summary types.SessionSummary) ([]string, Source) {
	preview := append([]string(nil), summary.UserMessagesPreview...)
	if !summary.PreviewTruncated() {
		return preview, SourcePreview
	}
	if full := c.State(KeyFor(summary, types.DetailModeFull)); full.Status == StatusReady {
		return full.Response.UserMessages(), SourceFull
	}
	if userOnly := c.State(KeyFor(summary, types.DetailModeUserOnly)); userOnly.Response != nil {
		return userOnly.Response.UserMessages(), SourceUserOnly
	}
	return preview, SourcePreview
}

// SyncVisible requests details for the sessions on screen in the active
// mode and reports how many fetches were started.
func (c *Cache) SyncVisible(scopeName string, sessions []types.SessionSummary, mode types.DetailMode) int {
	started := 0
	for _, summary := range sessions {
		if mode == types.DetailModeUserOnly {
			if _, ok := c.requestUserMessages(scopeName, summary); ok {
				started++
			}
			continue
		}
		if c.RequestDetail(scopeName, KeyFor(summary, mode), false) {
			started++
		}
	}
	return started
}
