package app

import (
	"fmt"
	"strings"

	"agentdev/internal/detailcache"
	"agentdev/internal/diff"
	"agentdev/internal/providers"
	"agentdev/internal/types"
)

// refreshDetail rebuilds the detail pane for the current selection and
// scrolls to the top when the selection changed.
func (m *Model) refreshDetail() {
	width := m.detail.Width
	var content, selection string
	if m.tab == tabChanges {
		content = m.renderEntryDetail(width)
		selection = "change:" + m.changeCursor
	} else {
		content = m.renderSessionDetail(width)
		selection = "session:" + m.sessionCursor + "@" + string(m.mode)
	}
	m.detail.SetContent(content)
	if selection != m.detailSelection {
		m.detailSelection = selection
		m.detail.GotoTop()
	}
}

func (m *Model) renderSessionDetail(width int) string {
	summary, ok := m.selectedSession()
	if !ok {
		return emptyStyle.Render("Select a session")
	}
	sections := []string{sessionDetailHeader(summary)}
	if m.mode == types.DetailModeUserOnly {
		sections = append(sections, m.renderUserMessages(summary, width))
	} else {
		sections = append(sections, m.renderTranscript(summary, width))
	}
	return strings.Join(sections, "\n\n")
}

func sessionDetailHeader(summary types.SessionSummary) string {
	title := providerBadge(summary.Provider) + " " + headerStyle.Render(summary.SessionID) + " " +
		groupDescStyle.Render(providers.Label(summary.Provider))
	var meta []string
	if summary.WorktreeName != "" || summary.WorktreeID != "" {
		name := summary.WorktreeName
		if name == "" {
			name = summary.WorktreeID
		}
		meta = append(meta, "worktree "+name)
	}
	if summary.RepoName != "" && summary.Branch != "" {
		meta = append(meta, summary.RepoName+"/"+summary.Branch)
	}
	if summary.WorkingDir != "" {
		meta = append(meta, summary.WorkingDir)
	}
	if summary.LastTimestamp != "" {
		meta = append(meta, "last "+summary.LastTimestamp)
	}
	meta = append(meta, fmt.Sprintf("%d user message(s)", summary.UserMessageCount))
	return title + "\n" + itemMetaStyle.Render(strings.Join(meta, " · "))
}

func (m *Model) renderUserMessages(summary types.SessionSummary, width int) string {
	messages, source := m.cache.UserMessages(summary)
	var sections []string
	if source == detailcache.SourcePreview && summary.PreviewTruncated() {
		state := m.cache.State(detailcache.KeyFor(summary, types.DetailModeUserOnly))
		switch state.Status {
		case detailcache.StatusPending:
			sections = append(sections, detailLoadingStyle.Render(m.spinner.View()+" loading all user messages…"))
		case detailcache.StatusError:
			sections = append(sections, detailErrorStyle.Render(" "+state.Err+" ")+helpStyle.Render("  r to retry"))
		}
		sections = append(sections, helpStyle.Render(fmt.Sprintf("showing %d of %d messages", len(messages), summary.UserMessageCount)))
	}
	if len(messages) == 0 {
		sections = append(sections, emptyStyle.Render("No user messages"))
	}
	for _, message := range messages {
		sections = append(sections, userMessageStyle.Render("You")+"\n"+renderMarkdown(message, width))
	}
	return strings.Join(sections, "\n\n")
}

func (m *Model) renderTranscript(summary types.SessionSummary, width int) string {
	state := m.cache.State(detailcache.KeyFor(summary, m.mode))
	var sections []string
	switch state.Status {
	case detailcache.StatusPending:
		sections = append(sections, detailLoadingStyle.Render(m.spinner.View()+" loading "+strings.ToLower(m.mode.Label())+"…"))
	case detailcache.StatusError:
		return detailErrorStyle.Render(" "+state.Err+" ") + helpStyle.Render("  r to retry")
	case detailcache.StatusAbsent:
		return emptyStyle.Render("No detail loaded")
	}
	if state.Response == nil {
		return strings.Join(sections, "\n\n")
	}
	if len(state.Response.Events) == 0 {
		sections = append(sections, emptyStyle.Render("No events"))
	}
	for _, event := range state.Response.Events {
		sections = append(sections, renderEvent(event, width))
	}
	return strings.Join(sections, "\n\n")
}

func eventLabel(event types.SessionEvent) string {
	for _, candidate := range []string{event.Label, event.Actor, event.Category} {
		if label := strings.TrimSpace(candidate); label != "" {
			return label
		}
	}
	return "event"
}

func renderEvent(event types.SessionEvent, width int) string {
	style := agentMessageStyle
	if event.IsUser() {
		style = userMessageStyle
	}
	parts := []string{style.Render(eventLabel(event))}
	if text := event.DisplayText(); strings.TrimSpace(text) != "" {
		parts = append(parts, renderMarkdown(text, width))
	}
	if tool := event.Tool; tool != nil {
		line := "⚙ " + tool.Name
		if tool.Status != "" {
			line += " (" + tool.Status + ")"
		}
		parts = append(parts, toolEventStyle.Render(line))
		if output := firstLine(tool.Output); output != "" {
			parts = append(parts, itemMetaStyle.Render(truncateLine("  "+output, width)))
		}
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderEntryDetail(width int) string {
	if m.gitErr != "" {
		return detailErrorStyle.Render(" "+m.gitErr+" ") + helpStyle.Render("  r to retry")
	}
	entry, ok := m.selectedEntry()
	if !ok {
		if m.gitLoading {
			return detailLoadingStyle.Render(m.spinner.View() + " loading changes…")
		}
		return emptyStyle.Render("Select a change")
	}
	meta := []string{entry.GroupLabel}
	if entry.StatusLabel != "" {
		meta = append(meta, entry.StatusLabel)
	}
	header := headerStyle.Render(entry.Title) + "\n" + itemMetaStyle.Render(strings.Join(meta, " · ")) + " " + renderStats(entry.Stats())
	divider := dividerStyle.Render(strings.Repeat("─", max(width, 1)))
	return header + "\n" + divider + "\n" + strings.Join(renderDiffLines(entry, width), "\n")
}

func renderDiffLines(entry diff.Entry, width int) []string {
	var lines []string
	structured := false
	for _, file := range entry.Files {
		if len(entry.Files) > 1 && file.Label != "" {
			lines = append(lines, groupHeaderStyle.Render(file.Label))
		}
		if file.Binary {
			structured = true
			lines = append(lines, diffMetaStyle.Render("Binary file"))
			continue
		}
		for _, hunk := range file.Hunks {
			structured = true
			lines = append(lines, hunkHeaderStyle.Render(truncateLine(hunk.Header, width)))
			for _, line := range hunk.Lines {
				lines = append(lines, renderDiffLine(line, width))
			}
		}
	}
	if structured {
		return lines
	}
	// No hunks could be parsed; show the raw text.
	for _, raw := range strings.Split(strings.TrimRight(entry.DiffText, "\n"), "\n") {
		lines = append(lines, truncateLine(raw, width))
	}
	return lines
}

func renderDiffLine(line diff.Line, width int) string {
	switch line.Kind {
	case diff.LineAdd:
		return additionsStyle.Render(truncateLine("+"+line.Text, width))
	case diff.LineDelete:
		return deletionsStyle.Render(truncateLine("-"+line.Text, width))
	case diff.LineMeta:
		return diffMetaStyle.Render(truncateLine(line.Text, width))
	default:
		return truncateLine(" "+line.Text, width)
	}
}
