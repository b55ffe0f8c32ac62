package app

import (
	"github.com/charmbracelet/lipgloss"

	"agentdev/internal/providers"
)

const (
	panePaddingVertical   = 0
	panePaddingHorizontal = 1
)

var (
	headerStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	tabStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
	tabActiveStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("63")).Bold(true).Padding(0, 1)
	groupHeaderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true)
	groupCountStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	itemStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	itemMetaStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true)
	selectedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236"))
	emptyStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	dividerStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	additionsStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	deletionsStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	hunkHeaderStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	diffMetaStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true)
	detailPaneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(panePaddingVertical, panePaddingHorizontal)
	userMessageStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Bold(true)
	agentMessageStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	toolEventStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("180"))
	detailErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("160")).Bold(true)
	detailLoadingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true)
	searchPromptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	modeBadgeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("29")).Bold(true).Padding(0, 1)
	groupSelectorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	groupDescStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	previewMessageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

func providerBadge(provider string) string {
	def := providers.Resolve(provider)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(def.Color)).Bold(true).Render(def.Badge)
}
