package models

import "time"

// SessionRecord is the raw persisted form of a session: the bearer token
// and the identity as a JSON document, exactly as written by Establish.
// Parsing happens in the session store so a corrupted row can be recovered
// (dropped) without surfacing an error.
type SessionRecord struct {
	ChatID    int64
	Token     string
	Identity  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
