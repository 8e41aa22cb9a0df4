package models

import "time"

// Session is a persisted refresh credential backing an issued token pair.
// Deleting the row revokes it; refresh rotates it.
type Session struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
