// Package sessions declares the repository contract for persisted session
// (refresh) tokens.
package sessions

import (
	"context"
	"time"

	"github.com/dsmirnov/authd/internal/server/models"
)

type Repository interface {
	// Create stores a new session token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID int64, token string, validity time.Duration) error

	// Find looks up a session by its opaque token string. Absent tokens yield
	// common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.Session, error)

	// Delete revokes a session by its token string. Deleting a non-existent
	// token is not an error.
	Delete(ctx context.Context, token string) error
}
