package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/jask/chatty/internal/state"
)

// DemoMessages is the conversation set used by the demo provider and by
// `chatty seed`.
func DemoMessages() []state.Message {
	return []state.Message{
		{
			Contact:   state.NewContact("Joe Smith", "111-111-1111"),
			Content:   "hey from joe smith",
			Timestamp: time.Unix(1724895116, 0).UTC(),
			Direction: state.From,
		},
		{
			Contact:   state.NewContact("Ben Boy", "222-222-2222"),
			Content:   "hi it is benny boy",
			Timestamp: time.Unix(1724895126, 0).UTC(),
			Direction: state.From,
		},
		{
			Contact:   state.NewContact("Becky Sue", "333-333-3333"),
			Content:   "how do you do its becky sue",
			Timestamp: time.Unix(1724895136, 0).UTC(),
			Direction: state.From,
		},
	}
}

// SeedDemo sends DemoMessages through p unless p already knows a contact.
// It reports whether anything was written.
func SeedDemo(ctx context.Context, p state.Provider) (bool, error) {
	existing, err := p.RecentContacts(ctx)
	if err != nil {
		return false, fmt.Errorf("list contacts: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}
	for _, msg := range DemoMessages() {
		if err := p.Send(ctx, msg); err != nil {
			return false, fmt.Errorf("seed %s: %w", msg.Contact, err)
		}
	}
	return true, nil
}
