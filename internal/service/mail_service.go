package service

import (
	"fmt"
	"net"
	"net/smtp"

	"verduleria/internal/config"

	"go.uber.org/zap"
)

// Relay result strings returned to the client. Failures are logged with
// full detail server-side; nothing past the boundary ever sees an error.
const (
	MailSent   = "message sent"
	MailFailed = "message could not be sent"
)

// MailService sends transactional email through the configured SMTP relay.
type MailService interface {
	Send(to, subject, content string) string
}

type smtpMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewMailService creates a new instance of MailService
func NewMailService(cfg config.SMTPConfig, logger *zap.Logger) MailService {
	return &smtpMailer{cfg: cfg, logger: logger}
}

// Send relays a single HTML email and reports the outcome as a result
// string. It never returns or panics with an error.
func (m *smtpMailer) Send(to, subject, content string) string {
	if err := m.send(to, subject, content); err != nil {
		m.logger.Error("Failed to send mail",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return MailFailed
	}

	m.logger.Info("Mail sent", zap.String("to", to), zap.String("subject", subject))
	return MailSent
}

func (m *smtpMailer) send(to, subject, content string) error {
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Password != "" {
		auth = smtp.PlainAuth("", m.cfg.Email, m.cfg.Password, m.cfg.Host)
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.cfg.Email, to, subject, content,
	)

	return smtp.SendMail(addr, auth, m.cfg.Email, []string{to}, []byte(msg))
}
