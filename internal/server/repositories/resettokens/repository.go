// Package resettokens declares the repository contract for single-use
// password-reset tokens.
package resettokens

import (
	"context"
	"time"
)

type Repository interface {
	// Create stores a new reset token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID int64, token string, validity time.Duration) error

	// Consume atomically removes the token if it is still unexpired at the
	// given instant and returns its owning user id. A missing or expired
	// token yields common.ErrorNotFound; either way the row is gone.
	Consume(ctx context.Context, token string, now time.Time) (int64, error)

	// PurgeExpired deletes every token whose expiry is at or before now and
	// reports how many rows were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
