package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/chatty/internal/state"
	"github.com/jask/chatty/internal/tui/widgets"
)

// PaneID names one of the router's panes.
type PaneID int

const (
	PaneInput PaneID = iota
	PaneMessages
	PaneContacts
	PanePopup
)

func (id PaneID) String() string {
	switch id {
	case PaneInput:
		return "input"
	case PaneMessages:
		return "messages"
	case PaneContacts:
		return "contacts"
	case PanePopup:
		return "popup"
	}
	return "unknown"
}

func (id PaneID) scope() string {
	switch id {
	case PaneMessages:
		return scopeMessages
	case PaneContacts:
		return scopeContacts
	case PanePopup:
		return scopePopup
	}
	return scopeInput
}

const (
	inputHeight    = 3
	footerHeight   = 1
	minPopupHeight = 5
	defaultWidth   = 80
	defaultHeight  = 24
)

// Layout sizes, in percent of the screen.
type Layout struct {
	ContactsWidth int
	PopupWidth    int
	PopupHeight   int
}

func DefaultLayout() Layout {
	return Layout{ContactsWidth: 20, PopupWidth: 60, PopupHeight: 20}
}

// Router owns the pane set and which pane receives keys. Global shortcuts
// are checked before the active pane sees a key. The popup remembers the
// pane it was opened from and returns there on close.
type Router struct {
	active   PaneID
	prePopup PaneID

	input    *InputPane
	messages *MessagesPane
	contacts *ConversationsPane
	console  *DevConsole

	keys     *KeyRegistry
	dispatch Dispatch
	layout   Layout
	log      *zap.Logger
}

func NewRouter(st state.State, keys *KeyRegistry, dispatch Dispatch, layout Layout, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		active:   PaneInput,
		prePopup: PaneInput,
		input:    NewInputPane(keys, dispatch),
		messages: NewMessagesPane(keys, st),
		contacts: NewConversationsPane(keys, dispatch, st),
		console:  NewDevConsole(keys, dispatch, log, st),
		keys:     keys,
		dispatch: dispatch,
		layout:   layout,
		log:      log,
	}
}

func (r *Router) Active() PaneID { return r.active }

// HandleKey routes one key event.
func (r *Router) HandleKey(msg tea.KeyMsg) {
	scope := r.active.scope()
	switch {
	case r.keys.IsAction(msg, actionExit, scope):
		r.dispatch(state.Exit{})
	case r.active == PanePopup:
		if r.keys.IsAction(msg, actionClosePopup, scope) {
			r.focus(r.prePopup)
			return
		}
		r.console.HandleKey(msg)
	case r.keys.IsAction(msg, actionOpenPopup, scope):
		r.prePopup = r.active
		r.focus(PanePopup)
	case r.keys.IsAction(msg, actionFocusMessages, scope):
		r.focus(PaneMessages)
	case r.keys.IsAction(msg, actionFocusInput, scope):
		r.focus(PaneInput)
	case r.keys.IsAction(msg, actionFocusContacts, scope):
		r.focus(PaneContacts)
	default:
		r.forward(msg)
	}
}

func (r *Router) forward(msg tea.KeyMsg) {
	switch r.active {
	case PaneInput:
		r.input.HandleKey(msg)
	case PaneMessages:
		r.messages.HandleKey(msg)
	case PaneContacts:
		r.contacts.HandleKey(msg)
	case PanePopup:
		r.console.HandleKey(msg)
	}
}

// focus moves the active pane, unfocusing the old one first.
func (r *Router) focus(next PaneID) {
	if next == r.active {
		return
	}
	r.unfocused(r.active)
	prev := r.active
	r.active = next
	r.focused(next)
	r.log.Debug("focus", zap.Stringer("from", prev), zap.Stringer("to", next))
}

func (r *Router) focused(id PaneID) {
	switch id {
	case PaneContacts:
		r.contacts.Focus()
	case PanePopup:
		r.console.Focus()
	}
}

func (r *Router) unfocused(id PaneID) {
	if id == PaneMessages {
		r.messages.Unfocus()
	}
}

// Apply projects a new snapshot into every pane.
func (r *Router) Apply(st state.State) {
	r.messages.Apply(st)
	r.contacts.Apply(st)
	r.console.Apply(st)
}

// View renders the whole screen.
func (r *Router) View(width, height int) string {
	if width <= 0 || height <= 0 {
		width, height = defaultWidth, defaultHeight
	}
	pane := func(id PaneID, render func(int, int, bool) string) widgets.Widget {
		return widgets.Func(func(w, h int) string {
			return render(w, h, r.active == id)
		})
	}
	chat := widgets.VStack{
		Widgets: []widgets.Widget{
			pane(PaneMessages, r.messages.Render),
			pane(PaneInput, r.input.Render),
		},
		Sizes: []int{0, inputHeight},
	}
	contacts := min(max(r.layout.ContactsWidth, 1), 99)
	body := widgets.HStack{
		Widgets: []widgets.Widget{chat, pane(PaneContacts, r.contacts.Render)},
		Ratios:  []float64{float64(100 - contacts), float64(contacts)},
	}
	footer := widgets.Func(func(w, _ int) string {
		return RenderFooter(r.keys, r.active.scope(), w)
	})
	base := widgets.VStack{
		Widgets: []widgets.Widget{body, footer},
		Sizes:   []int{0, footerHeight},
	}.Render(width, height)

	if r.active != PanePopup {
		return base
	}
	pw, ph := widgets.PercentRect(width, height, r.layout.PopupWidth, r.layout.PopupHeight)
	ph = min(height, max(ph, minPopupHeight))
	return widgets.Overlay(base, r.console.Render(pw, ph, true), width, height)
}
