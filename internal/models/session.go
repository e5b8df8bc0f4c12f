package models

import "time"

// Identity is the authenticated user as returned by the marketplace API.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
}

// Session binds a bearer token to the identity it was issued for.
// Invariant: Token and Identity are set together or not at all; a Session
// value with only one of them is corrupted and must be discarded.
type Session struct {
	ChatID    int64     `json:"chat_id"`
	Token     string    `json:"token"`
	Identity  Identity  `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Session) Role() Role {
	if s == nil {
		return RoleGuest
	}
	return s.Identity.Role
}
