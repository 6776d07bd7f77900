package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/chatty/internal/state"
	"github.com/jask/chatty/internal/tui/widgets"
)

const timeLayout = "15:04:05"

// MessagesPane shows the focused chat in a scrollable viewport.
type MessagesPane struct {
	keys     *KeyRegistry
	contact  state.Contact
	messages []state.Message
	vp       viewport.Model
	follow   bool
}

func NewMessagesPane(keys *KeyRegistry, st state.State) *MessagesPane {
	p := &MessagesPane{keys: keys, vp: viewport.New(0, 0)}
	p.Apply(st)
	return p
}

func (p *MessagesPane) Name() string { return "Messages" }

// Apply replaces the cached chat. A new snapshot scrolls back to the
// newest message.
func (p *MessagesPane) Apply(st state.State) {
	p.contact = st.Chat.Contact
	p.messages = st.Chat.Messages
	p.follow = true
	p.rebuild()
}

// Resize sets the viewport to the inner size of a pane of width x height.
func (p *MessagesPane) Resize(width, height int) {
	w, h := widgets.InnerSize(width, height)
	if w == p.vp.Width && h == p.vp.Height {
		return
	}
	p.vp.Width, p.vp.Height = w, h
	p.rebuild()
}

// Unfocus snaps the view back to the newest message.
func (p *MessagesPane) Unfocus() {
	p.follow = true
	p.rebuild()
}

func (p *MessagesPane) HandleKey(msg tea.KeyMsg) {
	switch {
	case p.keys.IsAction(msg, actionUp, scopeMessages):
		p.vp.ScrollUp(1)
	case p.keys.IsAction(msg, actionDown, scopeMessages):
		p.vp.ScrollDown(1)
	case p.keys.IsAction(msg, actionPageUp, scopeMessages):
		p.vp.PageUp()
	case p.keys.IsAction(msg, actionPageDown, scopeMessages):
		p.vp.PageDown()
	}
}

func (p *MessagesPane) Render(width, height int, active bool) string {
	p.Resize(width, height)
	return widgets.Pane{
		Title:   p.Name() + ": " + p.contact.String(),
		Content: p.vp.View(),
		Active:  active,
	}.Render(width, height)
}

func (p *MessagesPane) rebuild() {
	if p.vp.Width <= 0 {
		return
	}
	wrap := lipgloss.NewStyle().Width(p.vp.Width)
	lines := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		lines = append(lines, wrap.Render(FormatMessage(m)))
	}
	p.vp.SetContent(strings.Join(lines, "\n"))
	if p.follow {
		p.vp.GotoBottom()
		p.follow = false
	}
}

// FormatMessage renders "HH:MM:SS Me: text" for outgoing messages and
// "HH:MM:SS <name>: text" for incoming ones.
func FormatMessage(m state.Message) string {
	ts := timeStyle.Render(m.Timestamp.Local().Format(timeLayout))
	if m.Direction == state.To {
		return ts + " " + outgoingStyle.Render("Me:") + " " + m.Content
	}
	return ts + " " + incomingStyle.Render(m.Contact.Name+":") + " " + m.Content
}
