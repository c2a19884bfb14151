package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Config holds SMTP connection parameters. Username and Password are
// optional; some relays accept unauthenticated submission.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPMailer implements ports.Mailer over go-mail. The TLS policy follows
// the port: implicit TLS on 465, mandatory STARTTLS on 587, opportunistic
// elsewhere (25, or local catchers like Mailpit on 1025).
type SMTPMailer struct {
	cfg Config
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Deliver sends one message with plain-text and HTML alternatives. Every
// provider error is returned as-is; callers decide how to degrade.
func (m *SMTPMailer) Deliver(ctx context.Context, from, to, subject, textBody, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(subject)

	switch {
	case htmlBody != "" && textBody != "":
		msg.SetBodyString(gomail.TypeTextPlain, textBody)
		msg.AddAlternativeString(gomail.TypeTextHTML, htmlBody)
	case htmlBody != "":
		msg.SetBodyString(gomail.TypeTextHTML, htmlBody)
	default:
		msg.SetBodyString(gomail.TypeTextPlain, textBody)
	}

	client, err := gomail.NewClient(m.cfg.Host, m.clientOptions()...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (m *SMTPMailer) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithTimeout(30 * time.Second),
	}

	switch m.cfg.Port {
	case 465:
		opts = append(opts, gomail.WithSSL())
	case 587:
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	default:
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	if m.cfg.Username != "" && m.cfg.Password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	return opts
}
