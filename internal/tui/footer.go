package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// RenderFooter shows the visible bindings for scope on a single bar.
func RenderFooter(keys *KeyRegistry, scope string, width int) string {
	bindings := keys.BindingsForScope(scope)
	kbs := make([]key.Binding, 0, len(bindings))
	for _, b := range bindings {
		if b.Hidden || len(b.Keys) == 0 {
			continue
		}
		kbs = append(kbs, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Description)))
	}

	h := help.New()
	h.Width = width
	h.ShortSeparator = "  "
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Background(colorMantle)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(colorMuted).Background(colorMantle)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Background(colorMantle)
	h.Styles.Ellipsis = lipgloss.NewStyle().Foreground(colorMuted).Background(colorMantle)

	line := h.ShortHelpView(kbs)
	if line == "" {
		line = lipgloss.NewStyle().Foreground(colorMuted).Background(colorMantle).Render("No shortcuts")
	}
	return renderBar(footerStyle, max(1, width), line)
}

func renderBar(style lipgloss.Style, width int, text string) string {
	line := strings.ReplaceAll(text, "\n", " ")
	line = ansi.Truncate(line, width, "")
	if lineW := ansi.StringWidth(line); lineW < width {
		line += strings.Repeat(" ", width-lineW)
	}
	return style.
		Width(width).
		MaxWidth(width).
		Render(line)
}
