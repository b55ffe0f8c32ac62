package providers

import "strings"

// Definition describes how a session provider is presented.
type Definition struct {
	Name    string
	Label   string
	Badge   string
	Color   string
	Aliases []string
}

const defaultBadgeColor = "245"

var registry = []Definition{
	{
		Name:    "claude",
		Label:   "Claude Code",
		Badge:   "[CLD]",
		Color:   "208",
		Aliases: []string{"claude-code", "claude_code"},
	},
	{
		Name:  "codex",
		Label: "Codex",
		Badge: "[CDX]",
		Color: "15",
	},
	{
		Name:  "gemini",
		Label: "Gemini",
		Badge: "[GEM]",
		Color: "45",
	},
	{
		Name:  "opencode",
		Label: "OpenCode",
		Badge: "[OPN]",
		Color: "39",
	},
	{
		Name:  "cursor",
		Label: "Cursor",
		Badge: "[CUR]",
		Color: "141",
	},
}

var registryByName = buildByName(registry)

func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func All() []Definition {
	out := make([]Definition, 0, len(registry))
	for _, def := range registry {
		out = append(out, cloneDefinition(def))
	}
	return out
}

func Lookup(name string) (Definition, bool) {
	def, ok := registryByName[Normalize(name)]
	if !ok {
		return Definition{}, false
	}
	return cloneDefinition(def), true
}

// Resolve always returns a definition; unknown providers get a generic
// badge built from their name.
func Resolve(name string) Definition {
	if def, ok := Lookup(name); ok {
		return def
	}
	key := Normalize(name)
	if key == "" {
		return Definition{Label: "unknown", Badge: "[???]", Color: defaultBadgeColor}
	}
	badge := strings.ToUpper(key)
	if len(badge) > 3 {
		badge = badge[:3]
	}
	return Definition{
		Name:  key,
		Label: strings.TrimSpace(name),
		Badge: "[" + badge + "]",
		Color: defaultBadgeColor,
	}
}

func Label(name string) string {
	return Resolve(name).Label
}

func buildByName(defs []Definition) map[string]Definition {
	out := make(map[string]Definition, len(defs))
	for _, def := range defs {
		name := Normalize(def.Name)
		if name == "" {
			continue
		}
		out[name] = cloneDefinition(def)
		for _, alias := range def.Aliases {
			if alias = Normalize(alias); alias != "" {
				out[alias] = cloneDefinition(def)
			}
		}
	}
	return out
}

func cloneDefinition(def Definition) Definition {
	copy := def
	if def.Aliases != nil {
		copy.Aliases = append([]string{}, def.Aliases...)
	}
	return copy
}
