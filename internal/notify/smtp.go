package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/petr-muller/jira-notion-sync/internal/config"
)

const (
	implicitTLSPort = 465
	smtpTimeout     = 30 * time.Second
)

// SMTPSender sends plain text emails through an authenticated SMTP server
type SMTPSender struct {
	host      string
	port      int
	from      string
	password  string
	receivers []string
}

// NewSMTPSender creates a sender authenticating as the configured sender address
func NewSMTPSender(c config.MailConfig) *SMTPSender {
	return &SMTPSender{
		host:      c.Host,
		port:      c.Port,
		from:      c.Sender,
		password:  c.Password,
		receivers: c.Receivers,
	}
}

func (s *SMTPSender) Send(ctx context.Context, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(s.receivers...); err != nil {
		return fmt.Errorf("invalid receiver address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(s.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.from),
		mail.WithPassword(s.password),
		mail.WithTimeout(smtpTimeout),
	}
	if s.port == implicitTLSPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("cannot create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("cannot send email to %v: %w", s.receivers, err)
	}

	return nil
}
