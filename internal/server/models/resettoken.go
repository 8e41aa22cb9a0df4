package models

import "time"

// PasswordResetToken is an ephemeral single-use credential. A token is valid
// only while now < ExpiresAt and is deleted on successful consumption.
type PasswordResetToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
