package report

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/khanrehan/halalinvest/internal/config"
)

// Mailer delivers rendered reports over SMTP with STARTTLS-capable
// PLAIN auth, the scheme most transactional providers accept on 587.
type Mailer struct {
	cfg config.SMTPConfig
}

// NewMailer returns a Mailer for cfg. Call cfg.Enabled() first; a
// Mailer built from an incomplete config fails on Send.
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers an HTML email with optional file attachments to the
// configured recipients.
func (m *Mailer) Send(subject, htmlBody string, attachments ...string) error {
	if !m.cfg.Enabled() {
		return fmt.Errorf("email: smtp is not configured")
	}

	msg, err := m.buildMessage(subject, htmlBody, attachments)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, m.cfg.From, m.cfg.To, msg); err != nil {
		return fmt.Errorf("email: sending via %s: %w", addr, err)
	}
	return nil
}

const mixedBoundary = "halalinvest-mixed-boundary"

func (m *Mailer) buildMessage(subject, htmlBody string, attachments []string) ([]byte, error) {
	var b strings.Builder

	b.WriteString("From: " + m.cfg.From + "\r\n")
	b.WriteString("To: " + strings.Join(m.cfg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if len(attachments) == 0 {
		b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
		b.WriteString("\r\n")
		b.WriteString(htmlBody)
		return []byte(b.String()), nil
	}

	b.WriteString("Content-Type: multipart/mixed; boundary=" + mixedBoundary + "\r\n\r\n")

	b.WriteString("--" + mixedBoundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	for _, path := range attachments {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("email: reading attachment %s: %w", path, err)
		}
		name := filepath.Base(path)
		b.WriteString("--" + mixedBoundary + "\r\n")
		b.WriteString("Content-Type: " + contentTypeFor(name) + "; name=\"" + name + "\"\r\n")
		b.WriteString("Content-Disposition: attachment; filename=\"" + name + "\"\r\n")
		b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		b.WriteString(wrapBase64(base64.StdEncoding.EncodeToString(data)))
		b.WriteString("\r\n")
	}
	b.WriteString("--" + mixedBoundary + "--\r\n")
	return []byte(b.String()), nil
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".html":
		return "text/html"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// wrapBase64 folds encoded content at 76 columns per RFC 2045.
func wrapBase64(s string) string {
	const width = 76
	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteString("\r\n")
		s = s[width:]
	}
	b.WriteString(s)
	return b.String()
}
