package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/dsmirnov/authd/internal/logging"
	"github.com/dsmirnov/authd/internal/server/config"
	"github.com/dsmirnov/authd/internal/server/models"
)

// EmailNotifier sends the reset link over SMTP.
type EmailNotifier struct {
	cfg    *config.Config
	logger logging.Logger
}

func NewEmailNotifier(cfg *config.Config, logger logging.Logger) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, logger: logger.With("module", "notify")}
}

func (n *EmailNotifier) SendPasswordReset(ctx context.Context, user *models.User, resetLink string) error {
	if user.Email == nil || *user.Email == "" {
		n.logger.Warn(ctx, "user has no email, skip notification", "username", user.Username)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.SMTPFrom)
	m.SetHeader("To", *user.Email)
	m.SetHeader("Subject", "Password reset")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nTo reset your password, follow the link below:\n\n%s\n\nThe link is valid for %s and can be used once.\n",
		user.Name, resetLink, n.cfg.ResetTokenValidityDuration))

	d := gomail.NewDialer(n.cfg.SMTPHost, n.cfg.SMTPPort, n.cfg.SMTPUser, n.cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending reset email: %w", err)
	}

	n.logger.Info(ctx, "password reset email sent", "username", user.Username)
	return nil
}
