// Package mailer sends the registration confirmation mail. Sending is
// a best-effort call made after the user row is committed; a failure is
// reported to the caller but never rolls back the registration.
package mailer

import (
	"context"
	"fmt"
	"sync"

	gomail "gopkg.in/gomail.v2"

	"campus-lostfound-api/internal/config"
)

// Mailer delivers a confirmation link to a registered address
type Mailer interface {
	SendConfirmation(ctx context.Context, to, confirmURL string) error
}

// SMTPMailer sends mail over SMTP with STARTTLS
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates an SMTPMailer from config
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
	}
}

// SendConfirmation sends the confirmation link. The SMTP dial blocks;
// the one-hour token window makes delivery timing uncritical.
func (m *SMTPMailer) SendConfirmation(ctx context.Context, to, confirmURL string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Lost & Found: confirm your email address")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Welcome to the campus Lost & Found board.\n\n"+
			"Open the link below within one hour to confirm your address:\n\n%s\n\n"+
			"If you did not register, ignore this mail.\n", confirmURL))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send confirmation mail: %w", err)
	}
	return nil
}

// Disabled is a Mailer that drops mail. Used when mail is turned off
// in config (local development).
type Disabled struct{}

func (Disabled) SendConfirmation(ctx context.Context, to, confirmURL string) error {
	return nil
}

// Recorder captures sent mail for tests
type Recorder struct {
	mu   sync.Mutex
	Sent []RecordedMail
	Err  error
}

type RecordedMail struct {
	To         string
	ConfirmURL string
}

func (r *Recorder) SendConfirmation(ctx context.Context, to, confirmURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Sent = append(r.Sent, RecordedMail{To: to, ConfirmURL: confirmURL})
	return nil
}
