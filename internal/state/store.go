package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jask/chatty/internal/interrupt"
	"github.com/jask/chatty/internal/queue"
)

// DefaultHistoryLimit caps how many messages are pulled for the active chat.
const DefaultHistoryLimit = 100

// ErrNoContacts means the provider had nothing to seed the first chat with.
var ErrNoContacts = errors.New("state: provider returned no contacts")

// Store is the only writer of State.
type Store struct {
	provider  Provider
	snapshots *queue.Unbounded[State]
	log       *zap.Logger
	limit     int
	now       func() time.Time
	unread    map[contactKey]struct{}
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithHistoryLimit sets the per-refresh message cap. Values <= 0 are ignored.
func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithClock overrides the timestamp source for outgoing messages.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(p Provider, opts ...Option) *Store {
	s := &Store{
		provider:  p,
		snapshots: queue.New[State](),
		log:       zap.NewNop(),
		limit:     DefaultHistoryLimit,
		now:       time.Now,
		unread:    make(map[contactKey]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshots is the channel the UI consumes. It buffers without bound.
func (s *Store) Snapshots() *queue.Unbounded[State] {
	return s.snapshots
}

// Run seeds the state from the provider, publishes it, then applies actions
// until an Exit action or an interrupt. It returns the shutdown reason.
//
// A provider that yields no contacts, or a snapshot consumer that has gone
// away, ends the loop with an error.
func (s *Store) Run(ctx context.Context, term *interrupt.Broadcaster, actions *queue.Unbounded[Action], interrupted *interrupt.Reader) (interrupt.Reason, error) {
	st, err := s.seed(ctx)
	if err != nil {
		return interrupt.Failed, err
	}
	if err := s.publish(st); err != nil {
		return interrupt.Failed, err
	}

	for {
		select {
		case <-actions.Ready():
			a, ok := actions.TryRecv()
			if !ok {
				continue
			}
			if _, exit := a.(Exit); exit {
				if err := term.Signal(interrupt.UserRequested); err != nil {
					s.log.Debug("exit after shutdown already signaled", zap.Error(err))
				}
				s.log.Info("exit requested")
				return interrupt.UserRequested, nil
			}
			s.apply(ctx, &st, a)
		case <-interrupted.Done():
			return s.interrupted(interrupted), nil
		}

		// A provider call may have outlasted a shutdown; the UI is gone then.
		select {
		case <-interrupted.Done():
			return s.interrupted(interrupted), nil
		default:
		}

		s.refresh(ctx, &st)
		if err := s.publish(st); err != nil {
			if reason, ok := interrupted.Reason(); ok {
				s.log.Info("snapshot consumer left during shutdown", zap.Stringer("reason", reason))
				return reason, nil
			}
			return interrupt.Failed, err
		}
	}
}

func (s *Store) interrupted(r *interrupt.Reader) interrupt.Reason {
	reason, _ := r.Reason()
	s.log.Info("interrupted", zap.Stringer("reason", reason))
	return reason
}

func (s *Store) seed(ctx context.Context) (State, error) {
	contacts, err := s.provider.RecentContacts(ctx)
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrNoContacts, err)
	}
	if len(contacts) == 0 {
		return State{}, ErrNoContacts
	}
	first := contacts[0]
	msgs, err := s.provider.Messages(ctx, first, s.limit)
	if err != nil {
		return State{}, fmt.Errorf("load messages for %s: %w", first, err)
	}
	s.log.Info("state seeded", zap.Int("contacts", len(contacts)), zap.Stringer("chat", first))
	return State{
		Chat:          Chat{Contact: first, Messages: msgs},
		Conversations: ConversationList{Contacts: contacts},
	}, nil
}

func (s *Store) apply(ctx context.Context, st *State, a Action) {
	switch a := a.(type) {
	case SendMessage:
		msg := Message{
			Contact:   st.Chat.Contact,
			Content:   a.Content,
			Timestamp: s.now(),
			Direction: To,
		}
		if err := s.provider.Send(ctx, msg); err != nil {
			s.log.Warn("send failed", zap.Stringer("contact", msg.Contact), zap.Error(err))
		}
	case FocusConversation:
		c := NewContact(a.Contact.Name, a.Contact.Phone)
		st.Chat.Contact = c
		delete(s.unread, c.key())
		s.log.Debug("focus conversation", zap.Stringer("contact", c))
	case InjectMessage:
		msg := a.Message
		msg.Contact = NewContact(msg.Contact.Name, msg.Contact.Phone)
		if msg.Timestamp.IsZero() {
			msg.Timestamp = s.now()
		}
		if err := s.provider.Send(ctx, msg); err != nil {
			s.log.Warn("inject failed", zap.Stringer("contact", msg.Contact), zap.Error(err))
			return
		}
		if msg.Direction == From && !msg.Contact.Same(st.Chat.Contact) {
			s.unread[msg.Contact.key()] = struct{}{}
		}
	default:
		s.log.Warn("unknown action", zap.String("type", fmt.Sprintf("%T", a)))
	}
}

// refresh reloads the active chat and the contact list from the provider.
// Provider errors keep the previous values.
func (s *Store) refresh(ctx context.Context, st *State) {
	msgs, err := s.provider.Messages(ctx, st.Chat.Contact, s.limit)
	if err != nil {
		s.log.Warn("refresh messages failed", zap.Stringer("contact", st.Chat.Contact), zap.Error(err))
	} else {
		st.Chat.Messages = msgs
	}

	contacts, err := s.provider.RecentContacts(ctx)
	if err != nil {
		s.log.Warn("refresh contacts failed", zap.Error(err))
	} else if len(contacts) > 0 {
		st.Conversations.Contacts = contacts
	}

	if !st.Conversations.Contains(st.Chat.Contact) {
		st.Conversations.Contacts = append(st.Conversations.Contacts, st.Chat.Contact)
	}
	for i, c := range st.Conversations.Contacts {
		_, unread := s.unread[c.key()]
		st.Conversations.Contacts[i].HasUnread = unread
	}
	st.Chat.Contact.HasUnread = false
}

func (s *Store) publish(st State) error {
	if err := s.snapshots.Send(st.Clone()); err != nil {
		return fmt.Errorf("publish state: %w", err)
	}
	return nil
}
