// Package mailer sends transactional email over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"go-tasklist/backend/internal/config"
)

// Sender handles sending emails via SMTP.
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender.
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{cfg: cfg, logger: logger}
}

// SendPasswordReset emails a password reset link to the user.
func (s *Sender) SendPasswordReset(to, name, resetURL string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Reset your password"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"A password reset was requested for your account.\n"+
			"Use the link below to choose a new password. The link expires in one hour.\n\n"+
			"%s\n\n"+
			"If you did not request this, you can ignore this email.\n",
		name, resetURL,
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
