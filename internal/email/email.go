// Package email delivers interview invitations over SMTP with STARTTLS.
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
)

// Config holds the SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	UseTLS   bool
	User     string
	Password string
	From     string
}

// Validate checks that the configuration is complete enough to send mail.
func (c Config) Validate() error {
	if c.Host == "" || c.User == "" || c.Password == "" || c.From == "" {
		return fmt.Errorf("smtp configuration is incomplete: host, user, password and from are required")
	}
	return nil
}

// IsValidAddress reports whether value parses as a deliverable email
// address: a non-empty local part and a dotted domain.
func IsValidAddress(value string) bool {
	raw := strings.TrimSpace(value)
	if raw == "" || !strings.Contains(raw, "@") {
		return false
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return false
	}
	at := strings.LastIndex(addr.Address, "@")
	if at <= 0 {
		return false
	}
	domain := addr.Address[at+1:]
	return strings.Contains(domain, ".")
}

// Sender sends plain-text mail through a single SMTP host.
type Sender struct {
	cfg Config
}

// NewSender creates a Sender after validating the configuration.
func NewSender(cfg Config) (*Sender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &Sender{cfg: cfg}, nil
}

// Send delivers one message. The context deadline bounds the whole exchange,
// including the dial.
func (s *Sender) Send(ctx context.Context, to, subject, body string) error {
	if !IsValidAddress(to) {
		return fmt.Errorf("destination email %q is invalid", to)
	}

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake failed: %w", err)
	}
	defer client.Close()

	if s.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return fmt.Errorf("starttls failed: %w", err)
		}
	}

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp authentication failed: %w", err)
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("smtp MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT TO failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err := fmt.Fprint(w, buildMessage(s.cfg.From, to, subject, body)); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	return client.Quit()
}

func buildMessage(from, to, subject, body string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return sb.String()
}
