package cli

import "github.com/charmbracelet/lipgloss"

var (
	successColor = lipgloss.Color("#22C55E")
	dangerColor  = lipgloss.Color("#EF4444")
	warnColor    = lipgloss.Color("#F59E0B")
	dimColor     = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().Bold(true)
	passStyle  = lipgloss.NewStyle().Foreground(successColor)
	failStyle  = lipgloss.NewStyle().Foreground(dangerColor)
	warnStyle  = lipgloss.NewStyle().Foreground(warnColor)
	dimStyle   = lipgloss.NewStyle().Foreground(dimColor)
)
