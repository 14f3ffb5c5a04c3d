// Package email provides outbound transactional email delivery.
// The Sender port is deliberately a single "send one message" operation so the
// sequence scheduler and the automation trigger stay decoupled from the
// provider. A missing configuration yields a NoopSender that silently skips.
package email

import (
	"context"

	"leadflow_backend/platform/config"
)

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte // raw file bytes (base64-encoded for Brevo)
	FileName string // e.g. "prequal-guide.pdf"
	MIMEType string // e.g. "application/pdf"
}

// Message is one outbound email.
type Message struct {
	To          string
	ToName      string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Sender delivers a single message. Implementations must be safe for
// concurrent use; scheduled sends call them from detached goroutines.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NoopSender swallows every send. Used when email is not configured so the
// nurture pipeline degrades to log-only instead of erroring.
type NoopSender struct{}

// Send implements Sender.
func (NoopSender) Send(ctx context.Context, msg Message) error { return nil }

// NewSender selects a sender implementation from configuration.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	switch cfg.GetEmailProvider() {
	case "smtp":
		return NewSMTPSender(
			cfg.GetSMTPHost(),
			cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(),
			cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(),
			cfg.GetEmailFromName(),
		), nil
	default:
		return NewBrevoSender(cfg.GetBrevoAPIKey(), cfg.GetEmailFromName(), cfg.GetEmailFromAddress()), nil
	}
}
