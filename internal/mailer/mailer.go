// Package mailer implements SMTP delivery of text material notifications.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/rezkam/cardfile/internal/domain"
	"github.com/rezkam/cardfile/internal/ptr"
)

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends notification emails over SMTP. It implements notify.Sender.
type Mailer struct {
	client *mail.Client
	from   string
}

// New creates a Mailer from cfg. Credentials are optional: when the
// username is empty the client connects without authentication, which is
// what local relays and test servers expect.
func New(cfg Config) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &Mailer{client: client, from: cfg.From}, nil
}

// SendCreated implements notify.Sender.
func (m *Mailer) SendCreated(ctx context.Context, to domain.User, material domain.TextMaterial) error {
	return m.send(ctx, to,
		"Your text material was submitted",
		fmt.Sprintf("Hi %s,\n\nYour text material %q was submitted and is waiting for review.\n", to.UserName, material.Title))
}

// SendApproved implements notify.Sender.
func (m *Mailer) SendApproved(ctx context.Context, to domain.User, material domain.TextMaterial) error {
	return m.send(ctx, to,
		"Your text material was approved",
		fmt.Sprintf("Hi %s,\n\nYour text material %q was approved and is now publicly visible.\n", to.UserName, material.Title))
}

// SendRejected implements notify.Sender.
func (m *Mailer) SendRejected(ctx context.Context, to domain.User, material domain.TextMaterial, reason string) error {
	body := fmt.Sprintf("Hi %s,\n\nYour text material %q was rejected.\n", to.UserName, material.Title)
	if reason != "" {
		body += fmt.Sprintf("\nReason: %s\n", reason)
	}
	return m.send(ctx, to, "Your text material was rejected", body)
}

// SendDeleted implements notify.Sender.
func (m *Mailer) SendDeleted(ctx context.Context, to domain.User, material domain.TextMaterial) error {
	return m.send(ctx, to,
		"Your text material was deleted",
		fmt.Sprintf("Hi %s,\n\nYour text material %q was deleted from category %q.\n",
			to.UserName, material.Title, ptr.Deref(material.CategoryTitle, "uncategorized")))
}

func (m *Mailer) send(ctx context.Context, to domain.User, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to.Email); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to.Email, err)
	}
	return nil
}
