package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText    lipgloss.Color = "#cdd6f4"
	colorMuted   lipgloss.Color = "#a6adc8"
	colorAccent  lipgloss.Color = "#89b4fa"
	colorSuccess lipgloss.Color = "#a6e3a1"
	colorError   lipgloss.Color = "#f38ba8"
	colorWarn    lipgloss.Color = "#f9e2af"
	colorMantle  lipgloss.Color = "#181825"
)

var (
	footerStyle = lipgloss.NewStyle().Background(colorMantle)

	outgoingStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	incomingStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	timeStyle     = lipgloss.NewStyle().Foreground(colorMuted)

	selectedStyle = lipgloss.NewStyle().Reverse(true)
	unreadStyle   = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
	chatStyle     = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
)
