package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zaptest"

	"github.com/jask/chatty/internal/state"
)

var (
	joe   = state.NewContact("Joe Smith", "111-111-1111")
	ben   = state.NewContact("Ben Boy", "222-222-2222")
	becky = state.NewContact("Becky Sue", "333-333-3333")
)

func demoState() state.State {
	return state.State{
		Chat: state.Chat{
			Contact: becky,
			Messages: []state.Message{{
				Contact:   becky,
				Content:   "how do you do its becky sue",
				Timestamp: time.Unix(1724895136, 0),
				Direction: state.From,
			}},
		},
		Conversations: state.ConversationList{Contacts: []state.Contact{becky, ben, joe}},
	}
}

type recorder struct {
	actions []state.Action
}

func (r *recorder) dispatch(a state.Action) { r.actions = append(r.actions, a) }

func newTestRouter(t *testing.T) (*Router, *recorder) {
	t.Helper()
	rec := &recorder{}
	r := NewRouter(demoState(), NewKeyRegistry(DefaultKeyBindings()), rec.dispatch, DefaultLayout(), zaptest.NewLogger(t))
	return r, rec
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+q":
		return tea.KeyMsg{Type: tea.KeyCtrlQ}
	case "ctrl+k":
		return tea.KeyMsg{Type: tea.KeyCtrlK}
	case "ctrl+j":
		return tea.KeyMsg{Type: tea.KeyCtrlJ}
	case "ctrl+h":
		return tea.KeyMsg{Type: tea.KeyCtrlH}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(r *Router, s string) {
	for _, ch := range s {
		if ch == ' ' {
			r.HandleKey(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		r.HandleKey(keyMsg(string(ch)))
	}
}
