package provider

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jask/chatty/internal/state"
)

// backends runs fn against every provider implementation.
func backends(t *testing.T, fn func(t *testing.T, p state.Provider)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemory())
	})
	t.Run("sqlite", func(t *testing.T) {
		p, db, err := OpenSQLite(filepath.Join(t.TempDir(), "chat.db"), zaptest.NewLogger(t))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		fn(t, p)
	})
}

func names(cs []state.Contact) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func contents(ms []state.Message) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Content
	}
	return out
}

func TestSeedDemoOrdersMostRecentFirst(t *testing.T) {
	backends(t, func(t *testing.T, p state.Provider) {
		ctx := context.Background()
		wrote, err := SeedDemo(ctx, p)
		require.NoError(t, err)
		require.True(t, wrote)

		wrote, err = SeedDemo(ctx, p)
		require.NoError(t, err)
		require.False(t, wrote, "second seed must be a no-op")

		got, err := p.RecentContacts(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"Becky Sue", "Ben Boy", "Joe Smith"}, names(got))

		msgs, err := p.Messages(ctx, state.NewContact("Joe Smith", "111-111-1111"), 0)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		want := DemoMessages()[0]
		if diff := cmp.Diff(want.Contact, msgs[0].Contact); diff != "" {
			t.Fatalf("contact mismatch (-want +got):\n%s", diff)
		}
		require.Equal(t, want.Content, msgs[0].Content)
		require.Equal(t, state.From, msgs[0].Direction)
		require.True(t, want.Timestamp.Equal(msgs[0].Timestamp))
	})
}

func TestSendMovesContactToFront(t *testing.T) {
	backends(t, func(t *testing.T, p state.Provider) {
		ctx := context.Background()
		_, err := SeedDemo(ctx, p)
		require.NoError(t, err)

		joe := state.NewContact("Joe Smith", "111-111-1111")
		require.NoError(t, p.Send(ctx, state.Message{
			Contact:   joe,
			Content:   "yo",
			Timestamp: time.Unix(1724895200, 0).UTC(),
			Direction: state.To,
		}))

		got, err := p.RecentContacts(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"Joe Smith", "Becky Sue", "Ben Boy"}, names(got))

		msgs, err := p.Messages(ctx, joe, 0)
		require.NoError(t, err)
		require.Equal(t, []string{"hey from joe smith", "yo"}, contents(msgs))
		require.Equal(t, state.To, msgs[1].Direction)
	})
}

func TestMessagesLimitKeepsNewest(t *testing.T) {
	backends(t, func(t *testing.T, p state.Provider) {
		ctx := context.Background()
		c := state.NewContact("Amy", "555")
		base := time.Unix(1724895116, 0).UTC()
		// Sent out of order on purpose.
		for _, i := range []int{2, 0, 3, 1} {
			require.NoError(t, p.Send(ctx, state.Message{
				Contact:   c,
				Content:   string(rune('a' + i)),
				Timestamp: base.Add(time.Duration(i) * time.Second),
			}))
		}

		msgs, err := p.Messages(ctx, c, 2)
		require.NoError(t, err)
		require.Equal(t, []string{"c", "d"}, contents(msgs))

		msgs, err = p.Messages(ctx, c, 0)
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b", "c", "d"}, contents(msgs))
	})
}

func TestBackdatedMessageKeepsRecentOrder(t *testing.T) {
	backends(t, func(t *testing.T, p state.Provider) {
		ctx := context.Background()
		joe := state.NewContact("Joe Smith", "111-111-1111")
		ben := state.NewContact("Ben Boy", "222-222-2222")
		at := time.Unix(1724895200, 0).UTC()

		require.NoError(t, p.Send(ctx, state.Message{Contact: joe, Content: "one", Timestamp: at}))
		require.NoError(t, p.Send(ctx, state.Message{Contact: ben, Content: "two", Timestamp: at}))
		require.NoError(t, p.Send(ctx, state.Message{Contact: joe, Content: "old", Timestamp: at.Add(-time.Hour)}))

		got, err := p.RecentContacts(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"Ben Boy", "Joe Smith"}, names(got))
	})
}

func TestUnknownContactHasNoMessages(t *testing.T) {
	backends(t, func(t *testing.T, p state.Provider) {
		msgs, err := p.Messages(context.Background(), state.NewContact("Ghost", "0"), 10)
		require.NoError(t, err)
		require.Empty(t, msgs)
	})
}

func TestMemoryKeepsSilentContactsInSeedOrder(t *testing.T) {
	ctx := context.Background()
	p := NewMemory(state.NewContact("A", "1"), state.NewContact("B", "2"), state.NewContact("C", "3"))
	require.NoError(t, p.Send(ctx, state.Message{Contact: state.NewContact("B", "2"), Content: "hi", Timestamp: time.Now()}))

	got, err := p.RecentContacts(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"B", "A", "C"}, names(got))
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewDemo()
	_, err := p.RecentContacts(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, p.Send(ctx, DemoMessages()[0]), context.Canceled)
}
