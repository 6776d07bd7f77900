package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/chatty/internal/state"
	"github.com/jask/chatty/internal/tui/widgets"
)

// ConversationsPane lists contacts, most recent first. The selection never
// wraps and stays within the list.
type ConversationsPane struct {
	keys     *KeyRegistry
	dispatch Dispatch
	contacts []state.Contact
	chat     state.Contact
	selected int
}

func NewConversationsPane(keys *KeyRegistry, dispatch Dispatch, st state.State) *ConversationsPane {
	p := &ConversationsPane{keys: keys, dispatch: dispatch}
	p.Apply(st)
	return p
}

func (p *ConversationsPane) Name() string { return "Contacts" }

func (p *ConversationsPane) Selected() int { return p.selected }

// Focus moves the selection back to the most recent conversation.
func (p *ConversationsPane) Focus() { p.selected = 0 }

func (p *ConversationsPane) Apply(st state.State) {
	p.contacts = st.Conversations.Contacts
	p.chat = st.Chat.Contact
	p.clamp()
}

func (p *ConversationsPane) HandleKey(msg tea.KeyMsg) {
	switch {
	case p.keys.IsAction(msg, actionUp, scopeContacts):
		p.selected--
	case p.keys.IsAction(msg, actionDown, scopeContacts):
		p.selected++
	case p.keys.IsAction(msg, actionSubmit, scopeContacts):
		if len(p.contacts) > 0 {
			p.dispatch(state.FocusConversation{Contact: p.contacts[p.selected]})
		}
	}
	p.clamp()
}

func (p *ConversationsPane) clamp() {
	p.selected = min(p.selected, len(p.contacts)-1)
	p.selected = max(p.selected, 0)
}

func (p *ConversationsPane) Render(width, height int, active bool) string {
	w, h := widgets.InnerSize(width, height)
	// Keep the selection on screen.
	first := max(0, p.selected-h+1)
	lines := make([]string, 0, h)
	for i := first; i < len(p.contacts) && len(lines) < h; i++ {
		c := p.contacts[i]
		marker := "  "
		if c.HasUnread {
			marker = unreadStyle.Render("● ")
		}
		name := ansi.Truncate(c.Name, max(1, w-2), "…")
		switch {
		case active && i == p.selected:
			name = selectedStyle.Render(name + strings.Repeat(" ", max(0, w-2-ansi.StringWidth(name))))
		case c.Same(p.chat):
			name = chatStyle.Render(name)
		case c.HasUnread:
			name = unreadStyle.Render(name)
		default:
			name = mutedStyle.Render(name)
		}
		lines = append(lines, marker+name)
	}
	return widgets.Pane{
		Title:   p.Name(),
		Content: strings.Join(lines, "\n"),
		Active:  active,
	}.Render(width, height)
}
