// Package provider holds the messaging backends behind state.Provider.
package provider

import (
	"context"
	"slices"
	"sync"

	"github.com/jask/chatty/internal/state"
)

// Memory keeps contacts and messages in process. It is safe for concurrent
// use, although the Store only calls it from one goroutine.
type Memory struct {
	mu       sync.Mutex
	contacts []state.Contact
	messages []stored
	seq      int
}

type stored struct {
	msg state.Message
	seq int
}

// NewMemory returns an empty provider knowing the given contacts, in order.
func NewMemory(contacts ...state.Contact) *Memory {
	m := &Memory{}
	for _, c := range contacts {
		m.addContact(c)
	}
	return m
}

// NewDemo returns a Memory seeded with DemoMessages.
func NewDemo() *Memory {
	m := NewMemory()
	for _, msg := range DemoMessages() {
		_ = m.Send(context.Background(), msg)
	}
	return m
}

func (m *Memory) Send(ctx context.Context, msg state.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.Contact = state.NewContact(msg.Contact.Name, msg.Contact.Phone)
	m.addContact(msg.Contact)
	m.seq++
	m.messages = append(m.messages, stored{msg: msg, seq: m.seq})
	return nil
}

func (m *Memory) Messages(ctx context.Context, contact state.Contact, limit int) ([]state.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []stored
	for _, s := range m.messages {
		if s.msg.Contact.Same(contact) {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, compareStored)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	msgs := make([]state.Message, len(out))
	for i, s := range out {
		msgs[i] = s.msg
	}
	return msgs, nil
}

func (m *Memory) RecentContacts(ctx context.Context) ([]state.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	latest := make(map[int]stored, len(m.contacts))
	for _, s := range m.messages {
		i := slices.IndexFunc(m.contacts, s.msg.Contact.Same)
		if cur, ok := latest[i]; !ok || compareStored(cur, s) < 0 {
			latest[i] = s
		}
	}

	order := make([]int, len(m.contacts))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		la, oka := latest[a]
		lb, okb := latest[b]
		switch {
		case oka && okb:
			return compareStored(lb, la)
		case oka:
			return -1
		case okb:
			return 1
		}
		return a - b
	})

	out := make([]state.Contact, len(order))
	for i, idx := range order {
		out[i] = m.contacts[idx]
	}
	return out, nil
}

func (m *Memory) addContact(c state.Contact) {
	c = state.NewContact(c.Name, c.Phone)
	if !slices.ContainsFunc(m.contacts, c.Same) {
		m.contacts = append(m.contacts, c)
	}
}

// compareStored orders by timestamp, then by arrival.
func compareStored(a, b stored) int {
	if c := a.msg.Timestamp.Compare(b.msg.Timestamp); c != 0 {
		return c
	}
	return a.seq - b.seq
}
