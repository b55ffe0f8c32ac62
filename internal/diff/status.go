package diff

import (
	"regexp"
	"strings"
)

var statusLabels = map[byte]string{
	'A': "Added",
	'M': "Modified",
	'D': "Deleted",
	'R': "Renamed",
	'C': "Copied",
	'T': "Type change",
	'U': "Unmerged",
	'?': "Untracked",
}

// NormalizeStatus maps a git status code to a human label. Only the first
// letter counts, so scored codes such as "R100" still resolve. Unknown codes
// pass through unchanged and an empty code has no label.
func NormalizeStatus(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return ""
	}
	if label, ok := statusLabels[upperASCII(trimmed[0])]; ok {
		return label
	}
	return code
}

func upperASCII(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

var (
	newFileRegex     = regexp.MustCompile(`^new file mode`)
	deletedFileRegex = regexp.MustCompile(`^deleted file mode`)
	renameFromRegex  = regexp.MustCompile(`^rename from `)
	copyFromRegex    = regexp.MustCompile(`^copy from `)
)

// InferStatus guesses a status code for a section that came without one,
// such as a file inside a commit divergence diff.
func InferStatus(section string) string {
	sawHeader := false
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case fileHeaderRegex.MatchString(line):
			if sawHeader {
				return "M"
			}
			sawHeader = true
		case newFileRegex.MatchString(line):
			return "A"
		case deletedFileRegex.MatchString(line):
			return "D"
		case renameFromRegex.MatchString(line):
			return "R"
		case copyFromRegex.MatchString(line):
			return "C"
		case strings.HasPrefix(line, "@@"):
			return "M"
		}
	}
	if sawHeader {
		return "M"
	}
	return ""
}
