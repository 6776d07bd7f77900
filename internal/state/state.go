// Package state owns the canonical application state and the single writer
// (Store) that mutates it in response to Actions.
package state

import (
	"fmt"
	"slices"
	"time"
)

// Contact is identified by (Name, Phone). HasUnread is presentation state
// maintained by the Store.
type Contact struct {
	Name      string
	Phone     string
	HasUnread bool
}

func NewContact(name, phone string) Contact {
	return Contact{Name: name, Phone: phone}
}

// Same reports whether c and o are the same contact, ignoring HasUnread.
func (c Contact) Same(o Contact) bool {
	return c.Name == o.Name && c.Phone == o.Phone
}

func (c Contact) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Phone)
}

type contactKey struct {
	name, phone string
}

func (c Contact) key() contactKey {
	return contactKey{name: c.Name, phone: c.Phone}
}

// Direction of a message relative to the local user.
type Direction int

const (
	// To is a message sent by the local user.
	To Direction = iota
	// From is a message received from the contact.
	From
)

func (d Direction) String() string {
	if d == From {
		return "from"
	}
	return "to"
}

type Message struct {
	Contact   Contact
	Content   string
	Timestamp time.Time
	Direction Direction
}

// Chat is the conversation currently focused by the UI.
type Chat struct {
	Contact  Contact
	Messages []Message
}

// ConversationList is ordered most recent first and holds each contact once.
type ConversationList struct {
	Contacts []Contact
}

// Index returns the position of c in the list, or -1.
func (l ConversationList) Index(c Contact) int {
	return slices.IndexFunc(l.Contacts, c.Same)
}

func (l ConversationList) Contains(c Contact) bool {
	return l.Index(c) >= 0
}

// State is the snapshot published to the UI after every accepted action.
type State struct {
	Chat          Chat
	Conversations ConversationList
}

// Clone returns a deep copy so a published snapshot never aliases the
// Store's working state.
func (s State) Clone() State {
	return State{
		Chat: Chat{
			Contact:  s.Chat.Contact,
			Messages: slices.Clone(s.Chat.Messages),
		},
		Conversations: ConversationList{
			Contacts: slices.Clone(s.Conversations.Contacts),
		},
	}
}
