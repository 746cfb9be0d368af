// Package email sends pipeline notifications over SMTP.
package email

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/appaso/pipeline/pkg/config"
)

// SMTPMailer sends mail through a STARTTLS SMTP endpoint using the
// credentials from Settings.
type SMTPMailer struct {
	host      string
	port      int
	user      string
	password  string
	recipient string
}

func NewSMTPMailer(cfg *config.Settings) *SMTPMailer {
	return &SMTPMailer{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		user:      cfg.EmailUser,
		password:  cfg.EmailPassword,
		recipient: cfg.EmailRecipient,
	}
}

// Send delivers one plain-text message to the configured recipient.
func (m *SMTPMailer) Send(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := message(m.user, m.recipient, subject, body)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.user, []string{m.recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("sending mail via %s: %w", addr, err)
	}
	return nil
}

// message renders the RFC 5322 payload. Headers must stay ASCII, so a
// non-ASCII subject is Q-encoded per RFC 2047.
func message(from, to, subject, body string) string {
	return strings.Join([]string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", mime.QEncoding.Encode("utf-8", subject)),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")
}
