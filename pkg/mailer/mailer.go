package mailer

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/noah-isme/e-surat-api/pkg/config"
)

// Client sends plain-text notification mail over SMTP. Construction never
// fails; Enabled reports whether credentials were configured so callers can
// skip sends silently.
type Client struct {
	cfg config.MailConfig
}

// NewClient wraps the mail configuration.
func NewClient(cfg config.MailConfig) *Client {
	return &Client{cfg: cfg}
}

// Enabled reports whether outbound mail is configured.
func (c *Client) Enabled() bool {
	return c.cfg.Host != "" && c.cfg.FromAddress != "" && len(c.cfg.Recipients) > 0
}

// Send delivers a message to the configured recipients.
func (c *Client) Send(subject, body string) error {
	if !c.Enabled() {
		return fmt.Errorf("smtp is not configured")
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	msg := c.buildMessage(subject, body)

	if c.cfg.Port == 465 {
		return c.sendTLS(addr, msg)
	}

	var auth smtp.Auth
	if c.cfg.Username != "" || c.cfg.Password != "" {
		auth = smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	}
	return smtp.SendMail(addr, auth, c.cfg.FromAddress, c.cfg.Recipients, msg)
}

func (c *Client) sendTLS(addr string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: c.cfg.Host})
	if err != nil {
		return fmt.Errorf("dial smtps: %w", err)
	}
	client, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		conn.Close() //nolint:errcheck
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close() //nolint:errcheck

	if c.cfg.Username != "" || c.cfg.Password != "" {
		auth := smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(c.cfg.FromAddress); err != nil {
		return err
	}
	for _, rcpt := range c.cfg.Recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (c *Client) buildMessage(subject, body string) []byte {
	from := c.cfg.FromAddress
	if c.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", c.cfg.FromName, c.cfg.FromAddress)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(c.cfg.Recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
