package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"librarium/internal/pkg/config"
	"librarium/internal/pkg/errs"
	"librarium/internal/usecase/commands"
)

// smtpMailer delivers plain-text mail through the relay configured in
// MailConfig. No auth: the relay is expected to sit inside the
// deployment's network.
type smtpMailer struct {
	addr string
	from string
}

func NewSMTPMailer(cfg config.MailConfig) commands.Mailer {
	return &smtpMailer{
		addr: net.JoinHostPort(cfg.Host, cfg.Port),
		from: cfg.FromAddress,
	}
}

func (m *smtpMailer) Send(ctx context.Context, subject, body string, to []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(m.from, to, subject, body)
	if err := smtp.SendMail(m.addr, nil, m.from, to, msg); err != nil {
		return errs.Wrap(err, "failed to send mail")
	}
	return nil
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
