package provider

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/chatty/internal/database"
	"github.com/jask/chatty/internal/database/repository"
	"github.com/jask/chatty/internal/state"
)

// SQLite persists conversations in a migrated sqlite database.
type SQLite struct {
	db  *sql.DB
	log *zap.Logger
}

// NewSQLite wraps an open, migrated database. The caller owns db.
func NewSQLite(db *sql.DB, log *zap.Logger) *SQLite {
	if log == nil {
		log = zap.NewNop()
	}
	return &SQLite{db: db, log: log}
}

// OpenSQLite opens path, applies migrations and returns the provider
// together with the underlying handle for the caller to close.
func OpenSQLite(path string, log *zap.Logger) (*SQLite, *sql.DB, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return NewSQLite(db, log), db, nil
}

func (p *SQLite) Send(ctx context.Context, msg state.Message) error {
	return database.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		c, err := repository.NewContactRepo(tx).Ensure(ctx, msg.Contact.Name, msg.Contact.Phone)
		if err != nil {
			return fmt.Errorf("ensure contact %s: %w", msg.Contact, err)
		}
		row, err := repository.NewMessageRepo(tx).Insert(ctx, repository.Message{
			ContactID: c.ID,
			Content:   msg.Content,
			SentAt:    msg.Timestamp,
			Direction: msg.Direction.String(),
		})
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		p.log.Debug("message stored",
			zap.String("id", row.ID),
			zap.Stringer("contact", msg.Contact),
			zap.Stringer("direction", msg.Direction))
		return nil
	})
}

func (p *SQLite) Messages(ctx context.Context, contact state.Contact, limit int) ([]state.Message, error) {
	c, err := repository.NewContactRepo(p.db).ByIdentity(ctx, contact.Name, contact.Phone)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	rows, err := repository.NewMessageRepo(p.db).ListForContact(ctx, c.ID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]state.Message, len(rows))
	for i, r := range rows {
		dir := state.To
		if r.Direction == repository.DirectionFrom {
			dir = state.From
		}
		out[i] = state.Message{
			Contact:   state.NewContact(c.Name, c.Phone),
			Content:   r.Content,
			Timestamp: r.SentAt,
			Direction: dir,
		}
	}
	return out, nil
}

func (p *SQLite) RecentContacts(ctx context.Context) ([]state.Contact, error) {
	rows, err := repository.NewContactRepo(p.db).ListRecent(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]state.Contact, len(rows))
	for i, r := range rows {
		out[i] = state.NewContact(r.Name, r.Phone)
	}
	return out, nil
}
