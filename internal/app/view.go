package app

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"agentdev/internal/detailcache"
	"agentdev/internal/diff"
	"agentdev/internal/providers"
	"agentdev/internal/rowmodel"
	"agentdev/internal/sessionindex"
	"agentdev/internal/types"
	"agentdev/internal/workspacepaths"
)

func (m *Model) resize(width, height int) {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	m.width = width
	m.height = height
	detailWidth := width - m.listWidth() - 1
	m.detail.Width = max(detailWidth-detailBorderWidth-detailPaddingWidth, 10)
	m.detail.Height = max(m.bodyHeight()-detailBorderWidth, 1)
}

func (m *Model) listWidth() int {
	return max(m.width*2/5, minListWidth)
}

func (m *Model) bodyHeight() int {
	return max(m.height-chromeHeaderLines-chromeFooterLines, 3)
}

func (m *Model) View() string {
	listWidth := m.listWidth()
	bodyHeight := m.bodyHeight()
	detailWidth := max(m.width-listWidth-1, 10)

	list := m.renderList(listWidth, bodyHeight)
	detail := detailPaneStyle.
		Width(detailWidth - detailBorderWidth).
		Height(bodyHeight - detailBorderWidth).
		Render(m.detail.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, " ", detail)

	return strings.Join([]string{
		truncateLine(m.renderHeader(), m.width),
		truncateLine(m.renderSelector(), m.width),
		truncateLine(m.renderSearchLine(), m.width),
		body,
		truncateLine(m.renderStatus(), m.width),
		truncateLine(helpStyle.Render(renderHelp(m.keys.shortHelp())), m.width),
	}, "\n")
}

func (m *Model) renderHeader() string {
	parts := []string{headerStyle.Render("agentdev")}
	for _, t := range []tab{tabSessions, tabChanges} {
		style := tabStyle
		if t == m.tab {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(t.label()))
	}
	parts = append(parts, modeBadgeStyle.Render(m.mode.Label()))
	if m.loading || m.gitLoading {
		parts = append(parts, m.spinner.View())
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderSelector() string {
	if m.tab == tabChanges {
		return m.renderWorktreeSelector()
	}
	group, ok := m.activeGroup()
	if !ok {
		return groupDescStyle.Render("no sessions loaded")
	}
	parts := []string{
		groupSelectorStyle.Render(group.Label),
		groupCountStyle.Render(fmt.Sprintf("(%d)", group.Count)),
	}
	if group.Description != "" {
		parts = append(parts, groupDescStyle.Render(group.Description))
	}
	position := 0
	for i, g := range m.index.Groups {
		if g.ID == group.ID {
			position = i + 1
		}
	}
	parts = append(parts, helpStyle.Render(fmt.Sprintf("[ ] %d/%d", position, len(m.index.Groups))))
	if m.index.Duplicates > 0 {
		parts = append(parts, helpStyle.Render(fmt.Sprintf("%d duplicate(s) hidden", m.index.Duplicates)))
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderWorktreeSelector() string {
	if m.snapshot == nil || len(m.snapshot.Worktrees) == 0 {
		return groupDescStyle.Render("no worktrees")
	}
	worktree, ok := m.snapshot.Worktree(m.worktreeID)
	if !ok {
		return groupDescStyle.Render("no worktree selected")
	}
	label := worktree.Name
	if label == "" {
		label = worktree.ID
	}
	parts := []string{groupSelectorStyle.Render(label)}
	if worktree.Branch != "" {
		parts = append(parts, groupDescStyle.Render(worktree.Branch))
	}
	if worktree.Path != "" {
		parts = append(parts, groupDescStyle.Render(workspacepaths.ShortLabel(workspacepaths.NormalizeKey(worktree.Path))))
	}
	if len(m.entries) > 0 {
		parts = append(parts, renderStats(diff.Totals(m.entries)))
	}
	parts = append(parts, helpStyle.Render(fmt.Sprintf("[ ] %d/%d", indexOfWorktree(m.snapshot.Worktrees, m.worktreeID)+1, len(m.snapshot.Worktrees))))
	return strings.Join(parts, " ")
}

func (m *Model) renderSearchLine() string {
	if m.searching {
		return m.search.View()
	}
	if term := m.searchTerm(); term != "" {
		return searchPromptStyle.Render("filter: "+term) + helpStyle.Render("  (esc clears)")
	}
	return helpStyle.Render("/ to filter")
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		if m.snapshot != nil {
			return statusStyle.Render("updated " + m.snapshot.FetchedAt.Format("15:04:05"))
		}
		return ""
	}
	if m.statusError {
		return statusErrorStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}

func renderStats(stats diff.Stats) string {
	return additionsStyle.Render(fmt.Sprintf("+%d", stats.Additions)) + " " + deletionsStyle.Render(fmt.Sprintf("-%d", stats.Deletions))
}

func (m *Model) renderList(width, height int) string {
	var lines []string
	var cursorLine int
	var offset *int
	if m.tab == tabChanges {
		lines, cursorLine = m.changeLines(width)
		offset = &m.changesOffset
	} else {
		lines, cursorLine = m.sessionLines(width)
		offset = &m.sessionsOffset
	}
	*offset = clampOffset(*offset, cursorLine, height, len(lines))
	end := min(*offset+height, len(lines))
	window := append([]string(nil), lines[*offset:end]...)
	for len(window) < height {
		window = append(window, "")
	}
	return padLines(window, width)
}

// clampOffset keeps the cursor line inside a window of height lines.
func clampOffset(offset, cursor, height, total int) int {
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+height {
		offset = cursor - height + 1
	}
	if offset > total-height {
		offset = total - height
	}
	return max(offset, 0)
}

func renderHeaderRow[T any](row rowmodel.Row[T]) string {
	return groupHeaderStyle.Render(row.Label) + " " + groupCountStyle.Render(fmt.Sprintf("(%d)", row.Count))
}

func openMarker(open bool) string {
	if open {
		return "▾ "
	}
	return "▸ "
}

func (m *Model) sessionLines(width int) ([]string, int) {
	var lines []string
	cursorLine := 0
	for _, row := range m.sessions.Rows() {
		switch row.Kind {
		case rowmodel.KindHeader:
			lines = append(lines, renderHeaderRow(row))
		case rowmodel.KindEmpty:
			lines = append(lines, emptyStyle.Render(row.Message))
		case rowmodel.KindItem:
			selected := row.Key == m.sessionCursor
			if selected {
				cursorLine = len(lines)
			}
			lines = append(lines, m.sessionItemLine(row.Ref, row.Open, selected, width))
			if row.Open {
				lines = append(lines, m.sessionPreviewLines(row.Ref, width)...)
			}
		}
	}
	return lines, cursorLine
}

func sessionTitle(summary types.SessionSummary) string {
	if title := firstLine(summary.LatestUserMessage()); title != "" {
		return title
	}
	return summary.SessionID
}

func (m *Model) sessionItemLine(summary types.SessionSummary, open, selected bool, width int) string {
	meta := formatAge(m.now(), sessionindex.ParseTimestamp(summary.LastTimestamp))
	if summary.UserMessageCount > 0 {
		meta = strings.TrimSpace(fmt.Sprintf("%s %d msg", meta, summary.UserMessageCount))
	}
	if selected {
		plain := openMarker(open) + providers.Resolve(summary.Provider).Badge + " " + sessionTitle(summary) + "  " + meta
		return selectedStyle.Render(truncateLine(plain, width))
	}
	line := openMarker(open) + providerBadge(summary.Provider) + " " + itemStyle.Render(sessionTitle(summary)) + "  " + itemMetaStyle.Render(meta)
	return truncateLine(line, width)
}

func (m *Model) sessionPreviewLines(summary types.SessionSummary, width int) []string {
	messages, _ := m.cache.UserMessages(summary)
	if len(messages) > openPreviewLimit {
		messages = messages[len(messages)-openPreviewLimit:]
	}
	var lines []string
	for _, message := range messages {
		lines = append(lines, previewMessageStyle.Render(truncateLine("    › "+firstLine(message), width)))
	}
	state := m.cache.State(detailcache.KeyFor(summary, types.DetailModeUserOnly))
	switch {
	case state.Status == detailcache.StatusPending:
		lines = append(lines, detailLoadingStyle.Render("    loading messages…"))
	case state.Status == detailcache.StatusError:
		lines = append(lines, statusErrorStyle.Render(truncateLine("    "+state.Err, width)))
	case len(lines) == 0:
		lines = append(lines, emptyStyle.Render("    no user messages"))
	}
	return lines
}

func (m *Model) changeLines(width int) ([]string, int) {
	if m.gitErr != "" {
		return []string{statusErrorStyle.Render(truncateLine(m.gitErr, width))}, 0
	}
	if m.gitLoading && m.gitDetails == nil {
		return []string{detailLoadingStyle.Render(m.spinner.View() + " loading changes…")}, 0
	}
	var lines []string
	cursorLine := 0
	for _, row := range m.changes.Rows() {
		switch row.Kind {
		case rowmodel.KindHeader:
			lines = append(lines, renderHeaderRow(row))
		case rowmodel.KindEmpty:
			lines = append(lines, emptyStyle.Render(row.Message))
		case rowmodel.KindItem:
			selected := row.Key == m.changeCursor
			if selected {
				cursorLine = len(lines)
			}
			lines = append(lines, changeItemLine(row.Ref, row.Open, selected, width))
			if row.Open {
				lines = append(lines, changeSummaryLine(row.Ref, width))
			}
		}
	}
	return lines, cursorLine
}

func statusLetter(entry diff.Entry) string {
	code := strings.TrimSpace(entry.Status)
	if code == "" {
		return " "
	}
	r, _ := utf8.DecodeRuneInString(code)
	return strings.ToUpper(string(r))
}

func changeItemLine(entry diff.Entry, open, selected bool, width int) string {
	stats := fmt.Sprintf("+%d -%d", entry.Additions, entry.Deletions)
	if selected {
		plain := openMarker(open) + statusLetter(entry) + " " + entry.Title + "  " + stats
		return selectedStyle.Render(truncateLine(plain, width))
	}
	line := openMarker(open) + itemMetaStyle.Render(statusLetter(entry)) + " " + itemStyle.Render(entry.Title) + "  " + renderStats(entry.Stats())
	return truncateLine(line, width)
}

func changeSummaryLine(entry diff.Entry, width int) string {
	hunks := 0
	binary := false
	for _, file := range entry.Files {
		hunks += len(file.Hunks)
		binary = binary || file.Binary
	}
	parts := []string{}
	if entry.StatusLabel != "" {
		parts = append(parts, entry.StatusLabel)
	}
	if binary {
		parts = append(parts, "binary")
	} else {
		parts = append(parts, fmt.Sprintf("%d hunk(s)", hunks))
	}
	if entry.Path != "" && entry.Path != entry.Title {
		parts = append(parts, entry.Path)
	}
	return itemMetaStyle.Render(truncateLine("    "+strings.Join(parts, " · "), width))
}

func formatAge(now, ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	d := now.Sub(ts)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
