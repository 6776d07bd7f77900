package state

import "context"

// Provider is the messaging backend. The Store is its only caller and calls
// it synchronously from its loop.
type Provider interface {
	// Send delivers or records msg.
	Send(ctx context.Context, msg Message) error
	// Messages returns at most limit messages for contact, oldest first. A
	// limit of zero or less means no cap.
	Messages(ctx context.Context, contact Contact, limit int) ([]Message, error)
	// RecentContacts returns known contacts, most recent activity first,
	// without duplicates.
	RecentContacts(ctx context.Context) ([]Contact, error)
}
