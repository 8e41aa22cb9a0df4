package notify

import (
	"context"

	"github.com/dsmirnov/authd/internal/logging"
	"github.com/dsmirnov/authd/internal/server/models"
)

// LogNotifier writes the reset link to the log instead of sending it
// anywhere. It is the default when no SMTP settings are configured.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "notify")}
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, user *models.User, resetLink string) error {
	n.logger.Info(ctx, "password reset link", "username", user.Username, "link", resetLink)
	return nil
}
