package diff

import (
	"regexp"
	"strings"
)

const fileHeaderPrefix = "diff --git "

// fileHeaderRegex matches the diff file header like:
// diff --git a/path/to/file b/path/to/file
var fileHeaderRegex = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)

const devNull = "/dev/null"

// SplitByFile cuts diffText at every "diff --git " line except one that
// would start the first section. Sections keep their newlines, so joining
// them reproduces the input exactly.
func SplitByFile(diffText string) []string {
	if diffText == "" {
		return nil
	}
	var sections []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(diffText, "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, fileHeaderPrefix) && current.Len() > 0 {
			sections = append(sections, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		sections = append(sections, current.String())
	}
	return sections
}

// ExtractLabel names a section from its first file header. A rename reads
// "old → new"; a missing side (/dev/null) yields the other path; a section
// without a usable header yields fallback.
func ExtractLabel(section, fallback string) string {
	oldPath, newPath, ok := headerPaths(section)
	if !ok {
		return fallback
	}
	switch {
	case oldPath != "" && newPath != "" && oldPath != newPath:
		return oldPath + " → " + newPath
	case newPath != "":
		return newPath
	case oldPath != "":
		return oldPath
	default:
		return fallback
	}
}

func headerPaths(section string) (oldPath, newPath string, ok bool) {
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSuffix(line, "\r")
		matches := fileHeaderRegex.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		return resolveHeaderPath(matches[1]), resolveHeaderPath(matches[2]), true
	}
	return "", "", false
}

func resolveHeaderPath(raw string) string {
	if raw == devNull {
		return ""
	}
	if strings.HasPrefix(raw, "a/") || strings.HasPrefix(raw, "b/") {
		return raw[2:]
	}
	return raw
}
