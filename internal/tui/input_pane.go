package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/chatty/internal/state"
	"github.com/jask/chatty/internal/tui/widgets"
)

// Dispatch hands an Action to the store. It never blocks.
type Dispatch func(state.Action)

// InputPane composes outgoing messages for the focused chat.
type InputPane struct {
	box      InputBox
	keys     *KeyRegistry
	dispatch Dispatch
}

func NewInputPane(keys *KeyRegistry, dispatch Dispatch) *InputPane {
	return &InputPane{keys: keys, dispatch: dispatch}
}

func (p *InputPane) Name() string { return "Input" }

func (p *InputPane) HandleKey(msg tea.KeyMsg) {
	if p.keys.IsAction(msg, actionSubmit, scopeInput) {
		if p.box.Empty() {
			return
		}
		p.dispatch(state.SendMessage{Content: p.box.Take()})
		return
	}
	editBox(&p.box, p.keys, msg, scopeInput)
}

func (p *InputPane) Render(width, height int, active bool) string {
	w, _ := widgets.InnerSize(width, height)
	return widgets.Pane{
		Title:   p.Name(),
		Content: p.box.View(w, active),
		Active:  active,
	}.Render(width, height)
}

// editBox applies the shared line editing keys to box.
func editBox(box *InputBox, keys *KeyRegistry, msg tea.KeyMsg, scope string) {
	switch {
	case keys.IsAction(msg, actionBackspace, scope):
		box.Backspace()
	case keys.IsAction(msg, actionLeft, scope):
		box.MoveLeft()
	case keys.IsAction(msg, actionRight, scope):
		box.MoveRight()
	case msg.Type == tea.KeyRunes && !msg.Alt:
		box.Insert(string(msg.Runes))
	case msg.Type == tea.KeySpace:
		box.Insert(" ")
	}
}
