// Package notify delivers password-reset links to users. Delivery is best
// effort: the reset token is already durable by the time a notifier runs, so
// failures are logged and never bubble up into the request.
package notify

import (
	"context"

	"github.com/dsmirnov/authd/internal/server/models"
)

// Notifier delivers a password-reset link to the given user.
type Notifier interface {
	SendPasswordReset(ctx context.Context, user *models.User, resetLink string) error
}
