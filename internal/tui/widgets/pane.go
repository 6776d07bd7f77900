package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	BorderIdle   lipgloss.Color = "#cdd6f4"
	BorderActive lipgloss.Color = "#f38ba8"
	BorderPopup  lipgloss.Color = "#a6e3a1"
)

// Pane is a rounded box with its title drawn into the top border. Content is
// pre-rendered; lines beyond the inner height are dropped.
type Pane struct {
	Title   string
	Content string
	Active  bool
	// Border overrides the idle/active colour when set.
	Border lipgloss.TerminalColor
}

func (p Pane) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if width < 4 {
		width = 4
	}
	if height < 3 {
		height = 3
	}

	var border lipgloss.TerminalColor = BorderIdle
	if p.Active {
		border = BorderActive
	}
	if p.Border != nil {
		border = p.Border
	}
	borderStyle := lipgloss.NewStyle().Foreground(border)
	titleStyle := lipgloss.NewStyle().Foreground(border).Bold(p.Active)

	innerWidth := width - 2
	contentWidth := innerWidth - 2

	titleText := ""
	if t := strings.TrimSpace(p.Title); t != "" {
		titleText = " " + t + " "
		if ansi.StringWidth(titleText) > innerWidth-1 {
			titleText = " " + ansi.Truncate(t, max(1, innerWidth-3), "") + " "
		}
	}
	leftDash := min(1, innerWidth)
	rightDash := max(0, innerWidth-leftDash-ansi.StringWidth(titleText))

	v := borderStyle.Render("│")
	top := borderStyle.Render("╭"+strings.Repeat("─", leftDash)) +
		titleStyle.Render(titleText) +
		borderStyle.Render(strings.Repeat("─", rightDash)+"╮")

	innerHeight := height - 2
	contentLines := strings.Split(p.Content, "\n")
	rows := make([]string, 0, height)
	rows = append(rows, top)
	for i := 0; i < innerHeight; i++ {
		line := ""
		if i < len(contentLines) {
			line = contentLines[i]
		}
		rows = append(rows, v+" "+padRight(line, contentWidth)+" "+v)
	}
	rows = append(rows, borderStyle.Render("╰"+strings.Repeat("─", innerWidth)+"╯"))
	return strings.Join(rows, "\n")
}

// InnerSize is the content area a Pane of the given outer size offers.
func InnerSize(width, height int) (int, int) {
	return max(1, width-4), max(1, height-2)
}
