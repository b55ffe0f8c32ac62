package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit        key.Binding
	SwitchTab   key.Binding
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	PrevGroup   key.Binding
	NextGroup   key.Binding
	Search      key.Binding
	ClearSearch key.Binding
	AcceptInput key.Binding
	CycleMode   key.Binding
	Refresh     key.Binding
	Copy        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		SwitchTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "sessions/changes")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand")),
		PrevGroup:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev group")),
		NextGroup:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next group")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ClearSearch: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		AcceptInput: key.NewBinding(key.WithKeys("enter")),
		CycleMode:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "detail mode")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "scroll detail")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "scroll detail")),
	}
}

func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.PrevGroup, k.NextGroup, k.Search, k.CycleMode, k.Copy, k.Refresh, k.SwitchTab, k.Quit}
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" {
			continue
		}
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, " • ")
}
