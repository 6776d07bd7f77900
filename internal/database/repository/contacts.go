package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jask/chatty/internal/database"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ContactRepo handles contacts.
type ContactRepo struct {
	db DBTX
}

func NewContactRepo(db DBTX) *ContactRepo { return &ContactRepo{db: db} }

// Ensure returns the contact with this identity, inserting it if needed.
func (r *ContactRepo) Ensure(ctx context.Context, name, phone string) (Contact, error) {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO contacts(name, phone, created_at) VALUES (?, ?, ?)
	ON CONFLICT(name, phone) DO NOTHING;
	`, name, phone, database.Now().UnixNano())
	if err != nil {
		return Contact{}, err
	}
	c, err := r.ByIdentity(ctx, name, phone)
	if err != nil {
		return Contact{}, err
	}
	if c == nil {
		return Contact{}, sql.ErrNoRows
	}
	return *c, nil
}

// ByIdentity returns nil when no such contact exists.
func (r *ContactRepo) ByIdentity(ctx context.Context, name, phone string) (*Contact, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, phone, created_at FROM contacts WHERE name = ? AND phone = ?`, name, phone)
	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ListRecent orders contacts by their latest message, newest first. Contacts
// without messages follow in creation order.
func (r *ContactRepo) ListRecent(ctx context.Context) ([]Contact, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT c.id, c.name, c.phone, c.created_at
	FROM contacts c
	LEFT JOIN (
		SELECT contact_id, sent_at AS last_at, seq AS last_seq,
			ROW_NUMBER() OVER (PARTITION BY contact_id ORDER BY sent_at DESC, seq DESC) AS rn
		FROM messages
	) m ON m.contact_id = c.id AND m.rn = 1
	ORDER BY m.last_at IS NULL, m.last_at DESC, m.last_seq DESC, c.id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(s scanner) (Contact, error) {
	var (
		c       Contact
		created int64
	)
	if err := s.Scan(&c.ID, &c.Name, &c.Phone, &created); err != nil {
		return Contact{}, err
	}
	c.CreatedAt = time.Unix(0, created).UTC()
	return c, nil
}
