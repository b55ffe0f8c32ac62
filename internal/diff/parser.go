package diff

import (
	"regexp"
	"strconv"
	"strings"
)

type LineKind string

const (
	LineContext LineKind = "context"
	LineAdd     LineKind = "add"
	LineDelete  LineKind = "delete"
	LineMeta    LineKind = "meta"
)

type Line struct {
	Kind LineKind `json:"kind"`
	Text string   `json:"text"`
}

// Hunk is one @@ range of a file diff.
type Hunk struct {
	Header   string `json:"header"`
	OldStart int    `json:"old_start"`
	OldCount int    `json:"old_count"`
	NewStart int    `json:"new_start"`
	NewCount int    `json:"new_count"`
	Lines    []Line `json:"lines"`
}

// File is the structured form of one file section.
type File struct {
	OldPath string `json:"old_path,omitempty"`
	NewPath string `json:"new_path,omitempty"`
	Label   string `json:"label"`
	Binary  bool   `json:"binary,omitempty"`
	Hunks   []Hunk `json:"hunks,omitempty"`
}

// chunkHeaderRegex matches git diff chunk headers like:
// @@ -1,5 +1,7 @@
// @@ -0,0 +1,10 @@ (new file)
var chunkHeaderRegex = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

var binaryFileRegex = regexp.MustCompile(`^Binary files .+ and .+ differ`)

// ParseFiles turns diffText into one File per section. Input without file
// headers becomes a single unlabeled File.
func ParseFiles(diffText string) []File {
	sections := SplitByFile(diffText)
	if len(sections) == 0 {
		return nil
	}
	files := make([]File, 0, len(sections))
	for _, section := range sections {
		if strings.TrimSpace(section) == "" {
			continue
		}
		files = append(files, parseSection(section))
	}
	return files
}

func parseSection(section string) File {
	oldPath, newPath, _ := headerPaths(section)
	file := File{
		OldPath: oldPath,
		NewPath: newPath,
		Label:   ExtractLabel(section, ""),
	}
	var current *Hunk
	flush := func() {
		if current != nil {
			file.Hunks = append(file.Hunks, *current)
			current = nil
		}
	}
	for _, line := range strings.Split(strings.TrimSuffix(section, "\n"), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if matches := chunkHeaderRegex.FindStringSubmatch(line); matches != nil {
			flush()
			current = &Hunk{
				Header:   line,
				OldStart: atoi(matches[1]),
				OldCount: countOrOne(matches[2]),
				NewStart: atoi(matches[3]),
				NewCount: countOrOne(matches[4]),
			}
			continue
		}
		if binaryFileRegex.MatchString(line) {
			file.Binary = true
			continue
		}
		if current == nil {
			continue
		}
		if line == "" {
			current.Lines = append(current.Lines, Line{Kind: LineContext})
			continue
		}
		switch line[0] {
		case '+':
			current.Lines = append(current.Lines, Line{Kind: LineAdd, Text: line[1:]})
		case '-':
			current.Lines = append(current.Lines, Line{Kind: LineDelete, Text: line[1:]})
		case ' ':
			current.Lines = append(current.Lines, Line{Kind: LineContext, Text: line[1:]})
		case '\\':
			current.Lines = append(current.Lines, Line{Kind: LineMeta, Text: line})
		default:
			// A non-diff line ends the hunk; later lines are file metadata.
			flush()
		}
	}
	flush()
	return file
}

func atoi(raw string) int {
	n, _ := strconv.Atoi(raw)
	return n
}

func countOrOne(raw string) int {
	if raw == "" {
		return 1
	}
	return atoi(raw)
}
