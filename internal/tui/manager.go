// Package tui runs the terminal front end: a bubbletea program that renders
// the latest state snapshot and routes keys to the active pane.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/jask/chatty/internal/interrupt"
	"github.com/jask/chatty/internal/queue"
	"github.com/jask/chatty/internal/state"
)

const DefaultTickRate = 250 * time.Millisecond

// Manager drives the UI loop.
type Manager struct {
	term    *interrupt.Broadcaster
	actions *queue.Unbounded[state.Action]
	keys    *KeyRegistry
	layout  Layout
	tick    time.Duration
	log     *zap.Logger
	input   io.Reader
	output  io.Writer
	alt     bool
}

type ManagerOption func(*Manager)

func WithLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func WithLayout(l Layout) ManagerOption {
	return func(m *Manager) { m.layout = l }
}

func WithTickRate(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.tick = d
		}
	}
}

func WithKeys(k *KeyRegistry) ManagerOption {
	return func(m *Manager) {
		if k != nil {
			m.keys = k
		}
	}
}

// WithIO replaces stdin and stdout. The alternate screen is only used on a
// real terminal.
func WithIO(in io.Reader, out io.Writer) ManagerOption {
	return func(m *Manager) {
		m.input, m.output = in, out
		m.alt = isTerminal(in)
	}
}

func NewManager(term *interrupt.Broadcaster, actions *queue.Unbounded[state.Action], opts ...ManagerOption) *Manager {
	m := &Manager{
		term:    term,
		actions: actions,
		keys:    NewKeyRegistry(DefaultKeyBindings()),
		layout:  DefaultLayout(),
		tick:    DefaultTickRate,
		log:     zap.NewNop(),
		input:   os.Stdin,
		output:  os.Stdout,
		alt:     true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run waits for the first snapshot, then runs the program until an
// interrupt or the end of input. The terminal is restored on every return
// path, and snapshots is closed so the store sees the consumer leave.
func (m *Manager) Run(ctx context.Context, snapshots *queue.Unbounded[state.State], interrupted *interrupt.Reader) (interrupt.Reason, error) {
	defer snapshots.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	first, reason, err := m.first(ctx, snapshots, interrupted)
	if err != nil || reason != 0 {
		return reason, err
	}

	model := &model{
		router:      NewRouter(first, m.keys, m.send, m.layout, m.log),
		snapshots:   snapshots,
		interrupted: interrupted,
		tick:        m.tick,
		ctx:         ctx,
	}

	var prog *tea.Program
	in := m.input
	if !isTerminal(in) {
		in = &eofReader{r: in, onEOF: func() { prog.Send(inputClosedMsg{}) }}
	}
	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(m.output),
		tea.WithoutSignalHandler(),
	}
	if m.alt {
		opts = append(opts, tea.WithAltScreen())
	}
	prog = tea.NewProgram(model, opts...)

	m.log.Info("ui started")
	if _, err := prog.Run(); err != nil {
		m.signal(interrupt.Failed)
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			if r, ok := interrupted.Reason(); ok {
				return r, nil
			}
		}
		return interrupt.Failed, fmt.Errorf("ui: %w", err)
	}

	if model.reason != 0 {
		m.log.Info("ui stopped", zap.Stringer("reason", model.reason))
		return model.reason, nil
	}
	// The program only quits on its own when input ends.
	m.signal(interrupt.UserRequested)
	r, _ := interrupted.Reason()
	m.log.Info("ui stopped", zap.Stringer("reason", r))
	return r, nil
}

func (m *Manager) first(ctx context.Context, snapshots *queue.Unbounded[state.State], interrupted *interrupt.Reader) (state.State, interrupt.Reason, error) {
	for {
		if st, ok := snapshots.TryRecv(); ok {
			return st, 0, nil
		}
		select {
		case <-snapshots.Ready():
		case <-interrupted.Done():
			r, _ := interrupted.Reason()
			return state.State{}, r, nil
		case <-ctx.Done():
			return state.State{}, interrupt.Failed, ctx.Err()
		}
	}
}

// send is the panes' Dispatch. A closed queue means the store has already
// stopped, which only happens during shutdown.
func (m *Manager) send(a state.Action) {
	if err := m.actions.Send(a); err != nil {
		m.log.Debug("action dropped", zap.String("type", fmt.Sprintf("%T", a)), zap.Error(err))
	}
}

func (m *Manager) signal(r interrupt.Reason) {
	if err := m.term.Signal(r); err != nil {
		m.log.Debug("signal", zap.Stringer("reason", r), zap.Error(err))
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// eofReader reports the end of a non-terminal input stream, which bubbletea
// otherwise swallows.
type eofReader struct {
	r     io.Reader
	onEOF func()
	done  bool
}

func (e *eofReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if errors.Is(err, io.EOF) && !e.done {
		e.done = true
		go e.onEOF()
	}
	return n, err
}

type (
	tickMsg        time.Time
	snapshotMsg    state.State
	interruptedMsg interrupt.Reason
	inputClosedMsg struct{}
)

type model struct {
	router      *Router
	snapshots   *queue.Unbounded[state.State]
	interrupted *interrupt.Reader
	tick        time.Duration
	ctx         context.Context

	width, height int
	reason        interrupt.Reason
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.nextTick(), m.waitForSnapshot(), m.waitForInterrupt())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		m.router.HandleKey(msg)
	case tickMsg:
		return m, m.nextTick()
	case snapshotMsg:
		m.router.Apply(state.State(msg))
		return m, m.waitForSnapshot()
	case interruptedMsg:
		m.reason = interrupt.Reason(msg)
		return m, tea.Quit
	case inputClosedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) View() string {
	return m.router.View(m.width, m.height)
}

func (m *model) nextTick() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		st, err := m.snapshots.Recv(m.ctx)
		if err != nil {
			return nil
		}
		return snapshotMsg(st)
	}
}

func (m *model) waitForInterrupt() tea.Cmd {
	return func() tea.Msg {
		r, err := m.interrupted.Wait(m.ctx)
		if err != nil {
			return nil
		}
		return interruptedMsg(r)
	}
}
