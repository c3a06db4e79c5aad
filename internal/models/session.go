package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is an opaque bearer credential. A token is usable only while
// now < ExpiresAt; expiry is re-checked on every authentication, never cached.
type Session struct {
	Token     string    `json:"token" db:"token"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
