package repository

import "time"

// Contact represents a contacts row.
type Contact struct {
	ID        int64
	Name      string
	Phone     string
	CreatedAt time.Time
}

// Message represents a messages row. Seq is the insertion order.
type Message struct {
	Seq       int64
	ID        string
	ContactID int64
	Content   string
	SentAt    time.Time
	Direction string
}

const (
	DirectionTo   = "to"
	DirectionFrom = "from"
)
