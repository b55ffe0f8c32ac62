// Package diff splits combined unified-diff text into per-file sections and
// derives the labels, status names and line statistics the dashboard shows
// for each of them. Nothing here interprets diff content beyond line prefixes.
package diff

import "strings"

// Stats counts added and removed content lines.
type Stats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

func (s Stats) Add(other Stats) Stats {
	return Stats{
		Additions: s.Additions + other.Additions,
		Deletions: s.Deletions + other.Deletions,
	}
}

func (s Stats) IsZero() bool {
	return s.Additions == 0 && s.Deletions == 0
}

// headerPrefixes start lines that carry file metadata. Several of them also
// begin with '+' or '-', so they are excluded before content is counted.
var headerPrefixes = []string{"diff --git", "index ", "@@", "+++", "---"}

func isHeaderLine(line string) bool {
	for _, prefix := range headerPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// ComputeStats counts '+' and '-' content lines in diffText.
func ComputeStats(diffText string) Stats {
	var stats Stats
	for _, line := range strings.Split(diffText, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || isHeaderLine(line) {
			continue
		}
		switch line[0] {
		case '+':
			stats.Additions++
		case '-':
			stats.Deletions++
		}
	}
	return stats
}

// Totals sums the statistics of every entry.
func Totals(entries []Entry) Stats {
	var total Stats
	for _, entry := range entries {
		total = total.Add(entry.Stats())
	}
	return total
}
