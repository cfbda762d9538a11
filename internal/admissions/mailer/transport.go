package mailer

import (
	"bytes"
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"admissions-tracker/internal/common/logger"
)

// Transport delivers a fully built message.
type Transport interface {
	Name() string
	Send(ctx context.Context, msg *gomail.Message) error
}

// RawSender is satisfied by aws.SESClient.
type RawSender interface {
	SendRawEmail(ctx context.Context, raw []byte) (string, error)
}

type SESTransport struct {
	client RawSender
}

func NewSESTransport(client RawSender) *SESTransport {
	return &SESTransport{client: client}
}

func (t *SESTransport) Name() string { return "ses" }

func (t *SESTransport) Send(ctx context.Context, msg *gomail.Message) error {
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return fmt.Errorf("build MIME message: %w", err)
	}
	_, err := t.client.SendRawEmail(ctx, buf.Bytes())
	return err
}

// SMTPTransport dials per message. gomail has no context support, so the
// dial runs in a goroutine and ctx only bounds the wait.
type SMTPTransport struct {
	dialer *gomail.Dialer
}

func NewSMTPTransport(host string, port int, username, password string) *SMTPTransport {
	return &SMTPTransport{dialer: gomail.NewDialer(host, port, username, password)}
}

func (t *SMTPTransport) Name() string { return "smtp" }

func (t *SMTPTransport) Send(ctx context.Context, msg *gomail.Message) error {
	done := make(chan error, 1)
	go func() { done <- t.dialer.DialAndSend(msg) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogTransport only logs. It is the development default.
type LogTransport struct {
	logger logger.Logger
}

func NewLogTransport(log logger.Logger) *LogTransport {
	return &LogTransport{logger: log}
}

func (t *LogTransport) Name() string { return "log" }

func (t *LogTransport) Send(_ context.Context, msg *gomail.Message) error {
	t.logger.Info("Email not delivered (log transport)", map[string]interface{}{
		"to":      msg.GetHeader("To"),
		"subject": msg.GetHeader("Subject"),
	})
	return nil
}
