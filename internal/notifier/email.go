package notifier

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/glazeddonut/Tennis-Monitor/internal/config"
)

// emailSender delivers notifications over plain SMTP.
type emailSender struct {
	config config.EmailConfig
	auth   smtp.Auth
}

func newEmailSender(cfg config.EmailConfig) *emailSender {
	return &emailSender{
		config: cfg,
		auth:   smtp.PlainAuth("", cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Host),
	}
}

func (e *emailSender) name() string { return "email" }

func (e *emailSender) send(title, message string, alert bool) error {
	subject := title
	if alert {
		subject = "[URGENT] " + title
	}

	body := message + fmt.Sprintf("\n\nSent at: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	addr := fmt.Sprintf("%s:%d", e.config.SMTP.Host, e.config.SMTP.Port)
	if err := smtp.SendMail(addr, e.auth, e.config.From, e.config.To, []byte(e.buildMessage(subject, body))); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildMessage assembles the full email with headers.
func (e *emailSender) buildMessage(subject, body string) string {
	var message strings.Builder
	message.WriteString(fmt.Sprintf("From: %s\r\n", e.config.From))
	message.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(e.config.To, ", ")))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	message.WriteString("\r\n")
	message.WriteString(body)
	return message.String()
}
