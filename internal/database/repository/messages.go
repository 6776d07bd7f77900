package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageRepo handles messages.
type MessageRepo struct {
	db DBTX
}

func NewMessageRepo(db DBTX) *MessageRepo { return &MessageRepo{db: db} }

// Insert stores m, assigning a random ID when m.ID is empty.
func (r *MessageRepo) Insert(ctx context.Context, m Message) (Message, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO messages(id, contact_id, content, sent_at, direction)
	VALUES (?, ?, ?, ?, ?);
	`, m.ID, m.ContactID, m.Content, m.SentAt.UTC().UnixNano(), m.Direction)
	if err != nil {
		return Message{}, err
	}
	if m.Seq, err = res.LastInsertId(); err != nil {
		return Message{}, err
	}
	return m, nil
}

// ListForContact returns the newest limit messages for a contact in
// ascending (sent_at, seq) order. limit <= 0 returns everything.
func (r *MessageRepo) ListForContact(ctx context.Context, contactID int64, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT seq, id, contact_id, content, sent_at, direction FROM (
		SELECT seq, id, contact_id, content, sent_at, direction
		FROM messages WHERE contact_id = ?
		ORDER BY sent_at DESC, seq DESC
		LIMIT ?
	) ORDER BY sent_at ASC, seq ASC
	`, contactID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Message
	for rows.Next() {
		var (
			m      Message
			sentAt int64
		)
		if err := rows.Scan(&m.Seq, &m.ID, &m.ContactID, &m.Content, &sentAt, &m.Direction); err != nil {
			return nil, err
		}
		m.SentAt = time.Unix(0, sentAt).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}
