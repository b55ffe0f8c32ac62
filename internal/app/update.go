package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"agentdev/internal/detailcache"
	"agentdev/internal/diff"
	"agentdev/internal/logging"
	"agentdev/internal/rowmodel"
	"agentdev/internal/sessionindex"
	"agentdev/internal/types"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshDetail()
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case snapshotMsg:
		return m, m.applySnapshot(msg)
	case gitDetailsMsg:
		m.applyGitDetails(msg)
		return m, nil
	case detailUpdatedMsg:
		m.refreshDetail()
		return m, waitForDetailUpdate(m.cacheEvents)
	case refreshTickMsg:
		cmds := []tea.Cmd{m.requestSnapshot(), refreshTickCmd(m.refreshInterval)}
		if m.tab == tabChanges {
			cmds = append(cmds, m.requestGit())
		}
		return m, tea.Batch(cmds...)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.SwitchTab):
		return m.switchTab()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Toggle):
		m.toggleSelected()
	case key.Matches(msg, m.keys.PrevGroup):
		return m.cycleGroup(-1)
	case key.Matches(msg, m.keys.NextGroup):
		return m.cycleGroup(1)
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m.search.Focus()
	case key.Matches(msg, m.keys.ClearSearch):
		if m.searchTerm() != "" {
			m.search.SetValue("")
			m.recompute()
		}
	case key.Matches(msg, m.keys.CycleMode):
		m.mode = m.mode.Next()
		m.setStatus("detail mode: " + m.mode.Label())
		m.hasInspect = false
		m.syncDetails()
		m.refreshDetail()
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	case key.Matches(msg, m.keys.Copy):
		m.copySelection()
	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.ClearSearch):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.recompute()
		return nil
	case key.Matches(msg, m.keys.AcceptInput):
		m.searching = false
		m.search.Blur()
		return nil
	}
	before := m.searchTerm()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.searchTerm() != before {
		m.recompute()
	}
	return cmd
}

func (m *Model) switchTab() tea.Cmd {
	if m.tab == tabSessions {
		m.tab = tabChanges
	} else {
		m.tab = tabSessions
	}
	m.setStatus("")
	m.recompute()
	if m.tab == tabChanges && m.gitDetails == nil && !m.gitLoading {
		return m.requestGit()
	}
	return nil
}

func (m *Model) requestSnapshot() tea.Cmd {
	if m.snapshots == nil {
		return nil
	}
	m.loading = true
	return loadSnapshotCmd(m.replaceRequestScope(requestScopeSnapshot), m.snapshots)
}

func (m *Model) requestGit() tea.Cmd {
	if m.git == nil || m.worktreeID == "" {
		return nil
	}
	m.gitLoading = true
	return loadGitCmd(m.replaceRequestScope(requestScopeGit), m.git, m.worktreeID)
}

func (m *Model) refresh() tea.Cmd {
	m.setStatus("refreshing…")
	if m.hasInspect {
		m.cache.RequestDetail(cacheScopeInspect, m.inspected, true)
	}
	cmds := []tea.Cmd{m.requestSnapshot()}
	if m.tab == tabChanges {
		cmds = append(cmds, m.requestGit())
	}
	return tea.Batch(cmds...)
}

func (m *Model) applySnapshot(msg snapshotMsg) tea.Cmd {
	m.loading = false
	if msg.err != nil {
		if isCanceledRequestError(msg.err) {
			return nil
		}
		m.logger.Warn("snapshot_refresh_failed", logging.F("error", msg.err))
		m.setError("refresh failed: " + msg.err.Error())
		return nil
	}
	m.snapshot = msg.snapshot
	m.index = msg.snapshot.Index()
	if _, ok := m.index.GroupsByID[m.groupID]; !ok {
		m.groupID = m.index.DefaultGroupID
	}
	if m.status == "refreshing…" || m.statusError {
		m.setStatus("")
	}

	var cmd tea.Cmd
	if _, ok := m.snapshot.Worktree(m.worktreeID); !ok {
		m.worktreeID = ""
		m.gitDetails = nil
		m.entries = nil
		if len(m.snapshot.Worktrees) > 0 {
			m.worktreeID = m.snapshot.Worktrees[0].ID
		}
		if m.tab == tabChanges {
			cmd = m.requestGit()
		}
	}
	m.recompute()
	return cmd
}

func (m *Model) applyGitDetails(msg gitDetailsMsg) {
	if msg.worktreeID != m.worktreeID {
		return
	}
	m.gitLoading = false
	if msg.err != nil {
		if isCanceledRequestError(msg.err) {
			return
		}
		m.logger.Warn("worktree_git_failed", logging.F("worktree", msg.worktreeID), logging.F("error", msg.err))
		m.gitErr = msg.err.Error()
		m.gitDetails = nil
		m.entries = nil
	} else {
		m.gitErr = ""
		m.gitDetails = msg.details
		m.entries = diff.BuildEntries(msg.details)
	}
	m.recompute()
}

func (m *Model) cycleGroup(step int) tea.Cmd {
	if m.tab == tabChanges {
		if m.snapshot == nil || len(m.snapshot.Worktrees) == 0 {
			return nil
		}
		worktrees := m.snapshot.Worktrees
		next := cycleIndex(len(worktrees), indexOfWorktree(worktrees, m.worktreeID), step)
		m.worktreeID = worktrees[next].ID
		m.gitDetails = nil
		m.gitErr = ""
		m.entries = nil
		m.changeCursor = ""
		m.recompute()
		return m.requestGit()
	}
	if m.index == nil || len(m.index.Groups) == 0 {
		return nil
	}
	current := 0
	for i, group := range m.index.Groups {
		if group.ID == m.groupID {
			current = i
			break
		}
	}
	m.groupID = m.index.Groups[cycleIndex(len(m.index.Groups), current, step)].ID
	m.sessionCursor = ""
	m.recompute()
	return nil
}

func cycleIndex(n, current, step int) int {
	if n == 0 {
		return 0
	}
	if current < 0 {
		if step > 0 {
			return 0
		}
		return n - 1
	}
	return ((current+step)%n + n) % n
}

func indexOfWorktree(worktrees []types.WorktreeSummary, id string) int {
	for i, worktree := range worktrees {
		if worktree.ID == id {
			return i
		}
	}
	return -1
}

// recompute rebuilds the active tab's rows from current input, keeps the
// cursor on a live item and refreshes everything derived from it.
func (m *Model) recompute() {
	term := m.searchTerm()
	switch m.tab {
	case tabChanges:
		m.changes.Recompute(rowmodel.FilterDiffGroups(m.entries, term), term)
		m.changeCursor = reconcileCursor(m.changes.Rows(), m.changeCursor)
	default:
		m.sessions.Recompute(rowmodel.SessionGroups(m.index, m.groupID, term), term)
		m.sessionCursor = reconcileCursor(m.sessions.Rows(), m.sessionCursor)
	}
	m.syncDetails()
	m.refreshDetail()
}

func reconcileCursor[T any](rows []rowmodel.Row[T], cursor string) string {
	first := ""
	for _, row := range rows {
		if row.Kind != rowmodel.KindItem {
			continue
		}
		if row.Key == cursor {
			return cursor
		}
		if first == "" {
			first = row.Key
		}
	}
	return first
}

func itemKeys[T any](rows []rowmodel.Row[T]) []string {
	var keys []string
	for _, row := range rows {
		if row.Kind == rowmodel.KindItem {
			keys = append(keys, row.Key)
		}
	}
	return keys
}

func (m *Model) moveCursor(step int) {
	var keys []string
	var cursor *string
	if m.tab == tabChanges {
		keys, cursor = itemKeys(m.changes.Rows()), &m.changeCursor
	} else {
		keys, cursor = itemKeys(m.sessions.Rows()), &m.sessionCursor
	}
	if len(keys) == 0 {
		return
	}
	current := -1
	for i, k := range keys {
		if k == *cursor {
			current = i
			break
		}
	}
	next := current + step
	if next < 0 {
		next = 0
	}
	if next >= len(keys) {
		next = len(keys) - 1
	}
	*cursor = keys[next]
	m.syncDetails()
	m.refreshDetail()
}

func (m *Model) toggleSelected() {
	if m.tab == tabChanges {
		if m.changeCursor != "" {
			m.changes.Toggle(m.changeCursor)
		}
	} else if m.sessionCursor != "" {
		m.sessions.Toggle(m.sessionCursor)
	}
	m.syncDetails()
	m.refreshDetail()
}

func (m *Model) selectedSession() (types.SessionSummary, bool) {
	if m.index == nil || m.sessionCursor == "" {
		return types.SessionSummary{}, false
	}
	summary, ok := m.index.SessionByKey[m.sessionCursor]
	return summary, ok
}

func (m *Model) selectedEntry() (diff.Entry, bool) {
	for _, row := range m.changes.Rows() {
		if row.Kind == rowmodel.KindItem && row.Key == m.changeCursor {
			return row.Ref, true
		}
	}
	return diff.Entry{}, false
}

// syncDetails asks the cache for what the sessions tab shows: user
// messages for expanded rows and the active mode for the selected row.
func (m *Model) syncDetails() {
	if m.tab != tabSessions {
		return
	}
	var expanded []types.SessionSummary
	for _, row := range m.sessions.Rows() {
		if row.Kind == rowmodel.KindItem && row.Open {
			expanded = append(expanded, row.Ref)
		}
	}
	m.cache.SyncVisible(cacheScopeVisible, expanded, types.DetailModeUserOnly)

	summary, ok := m.selectedSession()
	if !ok {
		if m.hasInspect {
			m.cache.CancelScope(cacheScopeInspect)
			m.hasInspect = false
		}
		return
	}
	key := detailcache.KeyFor(summary, m.mode)
	if m.hasInspect && key == m.inspected {
		return
	}
	m.cache.BeginScope(cacheScopeInspect)
	m.inspected = key
	m.hasInspect = true
	if m.mode == types.DetailModeUserOnly {
		m.cache.RequestUserMessages(cacheScopeInspect, summary)
		return
	}
	m.cache.RequestDetail(cacheScopeInspect, key, false)
}

func (m *Model) copySelection() {
	text, what := m.copyPayload()
	if strings.TrimSpace(text) == "" {
		m.setError("nothing to copy")
		return
	}
	method, err := copyTextToClipboard(text)
	if err != nil {
		m.setError("copy failed: " + err.Error())
		return
	}
	m.setStatus("copied " + what + " (" + method.String() + ")")
}

func (m *Model) copyPayload() (string, string) {
	if m.tab == tabChanges {
		entry, ok := m.selectedEntry()
		if !ok {
			return "", ""
		}
		return entry.DiffText, "diff for " + entry.Title
	}
	summary, ok := m.selectedSession()
	if !ok {
		return "", ""
	}
	if m.mode != types.DetailModeUserOnly {
		if resp := m.cache.Detail(detailcache.KeyFor(summary, m.mode)); resp != nil {
			return transcriptText(resp), "transcript"
		}
	}
	messages, _ := m.cache.UserMessages(summary)
	return strings.Join(messages, "\n\n"), "user messages"
}

func transcriptText(resp *types.SessionDetailResponse) string {
	var b strings.Builder
	for _, event := range resp.Events {
		text := strings.TrimSpace(event.DisplayText())
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(eventLabel(event))
		b.WriteString(": ")
		b.WriteString(text)
	}
	return b.String()
}

func (m *Model) activeGroup() (sessionindex.Group, bool) {
	if m.index == nil {
		return sessionindex.Group{}, false
	}
	return m.index.Group(m.groupID)
}
