package workspacepaths

import (
	"path"
	"strings"
)

// RootKey stands in for a working directory that normalizes to nothing.
const RootKey = "__root__"

// NormalizeKey produces the grouping key for a working directory: surrounding
// whitespace trimmed, backslashes turned into slashes, trailing slashes
// dropped. Case is preserved.
func NormalizeKey(raw string) string {
	key := strings.TrimSpace(raw)
	key = strings.ReplaceAll(key, `\`, "/")
	key = strings.TrimRight(key, "/")
	if key == "" {
		return RootKey
	}
	return key
}

// SameDir reports whether two raw working directories share a grouping key.
func SameDir(a, b string) bool {
	return NormalizeKey(a) == NormalizeKey(b)
}

// Label is the display form of a key produced by NormalizeKey.
func Label(key string) string {
	if key == "" || key == RootKey {
		return "/"
	}
	return key
}

// ShortLabel keeps the last two path segments, for narrow columns.
func ShortLabel(key string) string {
	label := Label(key)
	if label == "/" {
		return label
	}
	base := path.Base(label)
	parent := path.Base(path.Dir(label))
	if parent == "." || parent == "/" || parent == "" {
		return base
	}
	return parent + "/" + base
}
