package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/chatty/internal/database"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db))
	return db
}

func TestEnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	contacts := NewContactRepo(testDB(t))

	a, err := contacts.Ensure(ctx, "Joe Smith", "111-111-1111")
	require.NoError(t, err)
	b, err := contacts.Ensure(ctx, "Joe Smith", "111-111-1111")
	require.NoError(t, err)
	require.Equal(t, a.ID, b.ID)

	// Same name, different phone is a different contact.
	c, err := contacts.Ensure(ctx, "Joe Smith", "999")
	require.NoError(t, err)
	require.NotEqual(t, a.ID, c.ID)

	missing, err := contacts.ByIdentity(ctx, "Nobody", "0")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestListRecentOrdersByLatestMessage(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	contacts, messages := NewContactRepo(db), NewMessageRepo(db)

	joe, err := contacts.Ensure(ctx, "Joe", "1")
	require.NoError(t, err)
	ben, err := contacts.Ensure(ctx, "Ben", "2")
	require.NoError(t, err)
	quiet, err := contacts.Ensure(ctx, "Quiet", "3")
	require.NoError(t, err)

	base := time.Unix(1724895116, 0).UTC()
	_, err = messages.Insert(ctx, Message{ContactID: joe.ID, Content: "old", SentAt: base, Direction: DirectionFrom})
	require.NoError(t, err)
	_, err = messages.Insert(ctx, Message{ContactID: ben.ID, Content: "new", SentAt: base.Add(time.Minute), Direction: DirectionFrom})
	require.NoError(t, err)

	got, err := contacts.ListRecent(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []int64{ben.ID, joe.ID, quiet.ID}, []int64{got[0].ID, got[1].ID, got[2].ID})

	// Equal timestamps fall back to insertion order, newest first.
	_, err = messages.Insert(ctx, Message{ContactID: joe.ID, Content: "tie", SentAt: base.Add(time.Minute), Direction: DirectionTo})
	require.NoError(t, err)
	got, err = contacts.ListRecent(ctx)
	require.NoError(t, err)
	require.Equal(t, joe.ID, got[0].ID)
}

func TestListRecentUsesLatestMessageForTies(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	contacts, messages := NewContactRepo(db), NewMessageRepo(db)

	joe, err := contacts.Ensure(ctx, "Joe", "1")
	require.NoError(t, err)
	ben, err := contacts.Ensure(ctx, "Ben", "2")
	require.NoError(t, err)

	base := time.Unix(1724895116, 0).UTC()
	_, err = messages.Insert(ctx, Message{ContactID: joe.ID, Content: "latest", SentAt: base.Add(time.Minute), Direction: DirectionFrom})
	require.NoError(t, err)
	_, err = messages.Insert(ctx, Message{ContactID: ben.ID, Content: "latest", SentAt: base.Add(time.Minute), Direction: DirectionFrom})
	require.NoError(t, err)
	// A backdated import for joe must not count as his newest message.
	_, err = messages.Insert(ctx, Message{ContactID: joe.ID, Content: "imported", SentAt: base, Direction: DirectionFrom})
	require.NoError(t, err)

	got, err := contacts.ListRecent(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{ben.ID, joe.ID}, []int64{got[0].ID, got[1].ID})
}

func TestListForContactKeepsNewestInAscendingOrder(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	contacts, messages := NewContactRepo(db), NewMessageRepo(db)

	joe, err := contacts.Ensure(ctx, "Joe", "1")
	require.NoError(t, err)
	base := time.Unix(1724895116, 0).UTC()
	for i, body := range []string{"a", "b", "c", "d"} {
		m, err := messages.Insert(ctx, Message{ContactID: joe.ID, Content: body, SentAt: base.Add(time.Duration(i) * time.Second), Direction: DirectionTo})
		require.NoError(t, err)
		require.NotEmpty(t, m.ID)
	}

	last2, err := messages.ListForContact(ctx, joe.ID, 2)
	require.NoError(t, err)
	require.Len(t, last2, 2)
	require.Equal(t, "c", last2[0].Content)
	require.Equal(t, "d", last2[1].Content)
	require.True(t, last2[1].SentAt.Equal(base.Add(3*time.Second)))

	all, err := messages.ListForContact(ctx, joe.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
}
