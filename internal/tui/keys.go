package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Scopes match the router's panes.
const (
	scopeInput    = "input"
	scopeMessages = "messages"
	scopeContacts = "contacts"
	scopePopup    = "popup"
)

// Actions resolved through the registry.
const (
	actionExit          = "exit"
	actionFocusInput    = "focus_input"
	actionFocusMessages = "focus_messages"
	actionFocusContacts = "focus_contacts"
	actionOpenPopup     = "open_popup"
	actionClosePopup    = "close_popup"

	actionSubmit    = "submit"
	actionUp        = "up"
	actionDown      = "down"
	actionPageUp    = "page_up"
	actionPageDown  = "page_down"
	actionLeft      = "left"
	actionRight     = "right"
	actionBackspace = "backspace"
)

type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
	// Hidden bindings work but stay out of the footer.
	Hidden bool
}

type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

func (r *KeyRegistry) IsAction(msg tea.KeyMsg, action, scope string) bool {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if b.Action != action || !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return true
			}
		}
	}
	return false
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

// DefaultKeyBindings holds the global focus shortcuts followed by the
// per-pane keys.
func DefaultKeyBindings() []KeyBinding {
	return []KeyBinding{
		{Keys: []string{"ctrl+q", "ctrl+c"}, Action: actionExit, Description: "quit", Scopes: []string{"*"}},
		{Keys: []string{"ctrl+k"}, Action: actionFocusMessages, Description: "messages", Scopes: []string{scopeInput}},
		{Keys: []string{"ctrl+h"}, Action: actionFocusMessages, Description: "messages", Scopes: []string{scopeContacts}},
		{Keys: []string{"ctrl+j"}, Action: actionFocusInput, Description: "input", Scopes: []string{scopeMessages}},
		{Keys: []string{"ctrl+l"}, Action: actionFocusContacts, Description: "contacts", Scopes: []string{scopeInput, scopeMessages}},
		{Keys: []string{"ctrl+d"}, Action: actionOpenPopup, Description: "console", Scopes: []string{scopeInput, scopeMessages, scopeContacts}},
		{Keys: []string{"esc"}, Action: actionClosePopup, Description: "close", Scopes: []string{scopePopup}},

		{Keys: []string{"enter"}, Action: actionSubmit, Description: "send", Scopes: []string{scopeInput}},
		{Keys: []string{"enter"}, Action: actionSubmit, Description: "run", Scopes: []string{scopePopup}},
		{Keys: []string{"enter"}, Action: actionSubmit, Description: "open", Scopes: []string{scopeContacts}},
		{Keys: []string{"up", "k"}, Action: actionUp, Description: "up", Scopes: []string{scopeContacts}},
		{Keys: []string{"down", "j"}, Action: actionDown, Description: "down", Scopes: []string{scopeContacts}},
		{Keys: []string{"up"}, Action: actionUp, Description: "scroll", Scopes: []string{scopeMessages}},
		{Keys: []string{"down"}, Action: actionDown, Hidden: true, Scopes: []string{scopeMessages}},
		{Keys: []string{"pgup"}, Action: actionPageUp, Description: "page", Scopes: []string{scopeMessages}},
		{Keys: []string{"pgdown"}, Action: actionPageDown, Hidden: true, Scopes: []string{scopeMessages}},
		{Keys: []string{"left"}, Action: actionLeft, Hidden: true, Scopes: []string{scopeInput, scopePopup}},
		{Keys: []string{"right"}, Action: actionRight, Hidden: true, Scopes: []string{scopeInput, scopePopup}},
		{Keys: []string{"backspace"}, Action: actionBackspace, Hidden: true, Scopes: []string{scopeInput, scopePopup}},
	}
}
