package app

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

func padLines(lines []string, width int) string {
	if width <= 0 {
		return strings.Join(lines, "\n")
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		lineWidth := xansi.StringWidth(line)
		if lineWidth > width {
			line = xansi.Truncate(line, width, "…")
			lineWidth = xansi.StringWidth(line)
		}
		if lineWidth < width {
			line += strings.Repeat(" ", width-lineWidth)
		}
		out[i] = line
	}
	return strings.Join(out, "\n")
}

func truncateLine(line string, width int) string {
	if width <= 0 {
		return ""
	}
	return xansi.Truncate(line, width, "…")
}

// firstLine collapses text to its first non-blank line.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
