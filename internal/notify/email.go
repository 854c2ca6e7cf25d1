package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPConfig holds SMTP provider settings.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// SMTPClient sends multipart text+html email over plain SMTP with STARTTLS
// negotiated by the server when available.
type SMTPClient struct {
	cfg SMTPConfig
}

// NewSMTPClient returns nil when the provider is not configured so callers
// can treat email as an optional channel.
func NewSMTPClient(cfg SMTPConfig) *SMTPClient {
	if cfg.Host == "" || cfg.User == "" {
		return nil
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPClient{cfg: cfg}
}

func (c *SMTPClient) SendEmail(_ context.Context, to, subject, text, html string) error {
	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	auth := smtp.PlainAuth("", c.cfg.User, c.cfg.Pass, c.cfg.Host)

	msg := buildMIMEMessage(c.cfg.From, to, subject, text, html)
	if err := smtp.SendMail(addr, auth, c.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

const mimeBoundary = "storefront-alt-boundary"

func buildMIMEMessage(from, to, subject, text, html string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=" + mimeBoundary + "\r\n")
	b.WriteString("\r\n")

	b.WriteString("--" + mimeBoundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(text + "\r\n")

	b.WriteString("--" + mimeBoundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(html + "\r\n")

	b.WriteString("--" + mimeBoundary + "--\r\n")
	return []byte(b.String())
}
