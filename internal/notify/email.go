package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"
)

// ErrNoRecipient is returned when an email notification has no address
var ErrNoRecipient = errors.New("notification has no recipient")

// SMTPConfig holds the outgoing mail settings
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// EmailNotifier sends notifications over SMTP
type EmailNotifier struct {
	cfg    SMTPConfig
	send   func(e *email.Email, addr string, auth smtp.Auth) error
	logger zerolog.Logger
}

func NewEmailNotifier(cfg SMTPConfig, logger zerolog.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg: cfg,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
		logger: logger.With().Str("component", "email_notifier").Logger(),
	}
}

func (n *EmailNotifier) message(notification Notification) *email.Email {
	e := email.NewEmail()
	e.From = n.cfg.From
	e.To = []string{notification.Recipient}
	e.Subject = notification.Subject

	greeting := "Hello"
	if notification.Name != "" {
		greeting = "Hello " + notification.Name
	}
	body := fmt.Sprintf("%s,\n\n%s\n\nSent %s.\n",
		greeting, notification.Alert.Message, notification.SentAt.Format("Jan 2, 2006 15:04 MST"))
	e.Text = []byte(body)
	return e
}

func (n *EmailNotifier) Notify(ctx context.Context, notification Notification) error {
	if notification.Recipient == "" {
		return ErrNoRecipient
	}

	e := n.message(notification)
	addr := fmt.Sprintf("%s:%s", n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	if err := n.send(e, addr, auth); err != nil {
		n.logger.Error().Err(err).Str("to", notification.Recipient).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Info().Str("to", notification.Recipient).Str("subject", e.Subject).Msg("Email sent")
	return nil
}
