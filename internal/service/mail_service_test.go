package service

import (
	"testing"

	"verduleria/internal/config"

	"go.uber.org/zap"
)

func TestMailService_RelayFailureIsAbsorbed(t *testing.T) {
	// Nothing listens on this port; the relay attempt must fail fast and
	// come back as a result string, never as an error or panic.
	mail := NewMailService(config.SMTPConfig{
		Host:  "127.0.0.1",
		Port:  "1",
		Email: "shop@example.com",
	}, zap.NewNop())

	result := mail.Send("customer@example.com", "Order", "<p>hi</p>")
	if result != MailFailed {
		t.Errorf("Send = %q, want %q", result, MailFailed)
	}
}
