package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/lumora-health/lumora-backend/internal/ml"
	"github.com/lumora-health/lumora-backend/internal/resilience"
)

// Config holds SMTP relay settings
type Config struct {
	Host      string
	Port      int
	User      string
	Password  string
	FromEmail string
	FromName  string
}

// Configured reports whether the relay has credentials to send with
func (c Config) Configured() bool {
	return c.Host != "" && c.User != "" && c.Password != ""
}

// Mailer sends transactional email over an SMTP relay
type Mailer struct {
	cfg   Config
	retry resilience.RetryConfig
	send  func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates a mailer for the given relay configuration
func NewMailer(cfg Config) *Mailer {
	return &Mailer{cfg: cfg, retry: resilience.DefaultRetryConfig(), send: smtp.SendMail}
}

// SendAlertEmail sends a high-risk alert email. Failures are returned for the
// caller to log; they must never abort the operation that triggered them.
func (m *Mailer) SendAlertEmail(ctx context.Context, toEmail, userName string, level ml.RiskLevel, score float64, recommendation string) error {
	subject := fmt.Sprintf("Mental Health Alert - %s Risk Detected", level)
	body := fmt.Sprintf(
		"Hello,\r\n\r\n"+
			"This is an automated alert from Lumora Mental Health regarding %s.\r\n\r\n"+
			"Risk Level: %s\r\n"+
			"Risk Score: %.2f\r\n\r\n"+
			"Recommendation:\r\n%s\r\n\r\n"+
			"If this is an emergency, call your local crisis line immediately.\r\n"+
			"988 Suicide & Crisis Lifeline is available 24/7.\r\n\r\n"+
			"- %s",
		userName, level, score, recommendation, m.cfg.FromName)

	return m.sendMessage(ctx, toEmail, subject, body)
}

func (m *Mailer) sendMessage(ctx context.Context, to, subject, body string) error {
	if !m.cfg.Configured() {
		return fmt.Errorf("smtp relay not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := m.cfg.FromEmail
	if from == "" {
		from = m.cfg.User
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.cfg.FromName, from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)

	err := resilience.RetryWithConfig(ctx, m.retry, func() error {
		return m.send(addr, auth, from, []string{to}, []byte(msg.String()))
	})
	if err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	slog.Info("alert email sent", "to", to, "subject", subject)
	return nil
}
