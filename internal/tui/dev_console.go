package tui

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/chatty/internal/state"
	"github.com/jask/chatty/internal/tui/widgets"
)

const consoleHistory = 50

var errNoContacts = errors.New("no contacts to match against")

// DevConsole is the popup command line used to simulate traffic and drive
// the store by hand:
//
//	send-to NAME PHONE MESSAGE
//	send-from NAME PHONE MESSAGE
//	focus NAME [PHONE]
//	exit
//	panic
//
// Arguments follow shell quoting rules.
type DevConsole struct {
	box      InputBox
	keys     *KeyRegistry
	dispatch Dispatch
	log      *zap.Logger
	now      func() time.Time

	contacts []state.Contact
	output   []string
}

func NewDevConsole(keys *KeyRegistry, dispatch Dispatch, log *zap.Logger, st state.State) *DevConsole {
	c := &DevConsole{keys: keys, dispatch: dispatch, log: log, now: time.Now}
	c.Apply(st)
	return c
}

func (c *DevConsole) Name() string { return "Dev Console" }

func (c *DevConsole) Apply(st state.State) {
	c.contacts = st.Conversations.Contacts
}

// Focus parks the cursor after any text left over from last time.
func (c *DevConsole) Focus() { c.box.MoveToEnd() }

func (c *DevConsole) HandleKey(msg tea.KeyMsg) {
	if !c.keys.IsAction(msg, actionSubmit, scopePopup) {
		editBox(&c.box, c.keys, msg, scopePopup)
		return
	}
	line := c.box.Take()
	if strings.TrimSpace(line) == "" {
		return
	}
	c.print(mutedStyle.Render("> " + line))
	if err := c.Execute(line); err != nil {
		c.log.Info("dev console rejected input", zap.String("line", line), zap.Error(err))
		c.print(errorStyle.Render(err.Error()))
	}
}

// Execute parses line and dispatches the matching Action. Malformed input
// returns an error and dispatches nothing.
func (c *DevConsole) Execute(line string) error {
	args, err := shellquote.Split(line)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if len(args) == 0 {
		return nil
	}
	var out bytes.Buffer
	root := c.command()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	if err := root.Execute(); err != nil {
		return err
	}
	if s := strings.TrimSpace(out.String()); s != "" {
		c.print(s)
	}
	return nil
}

func (c *DevConsole) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	send := func(dir state.Direction) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			msg := state.Message{
				Contact:   state.NewContact(args[0], args[1]),
				Content:   args[2],
				Timestamp: c.now(),
				Direction: dir,
			}
			c.dispatch(state.InjectMessage{Message: msg})
			cmd.Printf("%s %s: %s\n", dir, msg.Contact, msg.Content)
			return nil
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:                "send-to NAME PHONE MESSAGE",
			Short:              "record a message sent to a contact",
			Args:               cobra.ExactArgs(3),
			DisableFlagParsing: true,
			RunE:               send(state.To),
		},
		&cobra.Command{
			Use:                "send-from NAME PHONE MESSAGE",
			Short:              "simulate a message received from a contact",
			Args:               cobra.ExactArgs(3),
			DisableFlagParsing: true,
			RunE:               send(state.From),
		},
		&cobra.Command{
			Use:                "focus NAME [PHONE]",
			Short:              "switch the active chat",
			Args:               cobra.RangeArgs(1, 2),
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				phone := ""
				if len(args) == 2 {
					phone = args[1]
				}
				contact, err := c.resolve(args[0], phone)
				if err != nil {
					return err
				}
				c.dispatch(state.FocusConversation{Contact: contact})
				cmd.Printf("focus %s\n", contact)
				return nil
			},
		},
		&cobra.Command{
			Use:   "exit",
			Short: "quit the client",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				c.dispatch(state.Exit{})
				return nil
			},
		},
		&cobra.Command{
			Use:    "panic",
			Short:  "crash deliberately",
			Args:   cobra.NoArgs,
			Hidden: true,
			Run: func(*cobra.Command, []string) {
				panic("dev console: panic requested")
			},
		},
	)
	return root
}

// resolve prefers an exact match. With a phone an unknown contact is taken
// as given; with a name alone the closest known name wins.
func (c *DevConsole) resolve(name, phone string) (state.Contact, error) {
	for _, ct := range c.contacts {
		if ct.Name == name && (phone == "" || ct.Phone == phone) {
			return state.NewContact(ct.Name, ct.Phone), nil
		}
	}
	if phone != "" {
		return state.NewContact(name, phone), nil
	}
	if len(c.contacts) == 0 {
		return state.Contact{}, errNoContacts
	}
	want := strings.ToLower(name)
	best, bestDist := c.contacts[0], -1
	for _, ct := range c.contacts {
		d := levenshtein.ComputeDistance(want, strings.ToLower(ct.Name))
		if bestDist < 0 || d < bestDist {
			best, bestDist = ct, d
		}
	}
	return state.NewContact(best.Name, best.Phone), nil
}

func (c *DevConsole) print(s string) {
	c.output = append(c.output, strings.Split(s, "\n")...)
	if n := len(c.output) - consoleHistory; n > 0 {
		c.output = c.output[n:]
	}
}

func (c *DevConsole) Render(width, height int, active bool) string {
	w, h := widgets.InnerSize(width, height)
	lines := c.output
	if keep := h - 1; len(lines) > keep {
		lines = lines[len(lines)-max(0, keep):]
	}
	body := make([]string, 0, h)
	body = append(body, lines...)
	for len(body) < h-1 {
		body = append(body, "")
	}
	body = append(body, "> "+c.box.View(max(1, w-2), active))
	return widgets.Pane{
		Title:   c.Name(),
		Content: strings.Join(body, "\n"),
		Active:  active,
		Border:  widgets.BorderPopup,
	}.Render(width, height)
}
