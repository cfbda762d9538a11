package mailer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	apperrors "admissions-tracker/internal/common/errors"
	"admissions-tracker/internal/common/logger"
	"admissions-tracker/internal/common/validation"
	"admissions-tracker/internal/models"
)

type Config struct {
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

type Mailer struct {
	config    Config
	transport Transport
	logger    logger.Logger
	now       func() time.Time
}

func New(cfg Config, transport Transport, log logger.Logger) *Mailer {
	return &Mailer{
		config:    cfg,
		transport: transport,
		logger:    log.WithFields(map[string]interface{}{"component": "mailer", "transport": transport.Name()}),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Send renders kind for recipient and delivers it within the configured
// timeout. Failures carry NOTIFICATION_SEND_FAILED.
func (m *Mailer) Send(ctx context.Context, recipient string, kind Kind, payload Payload) (*models.Notification, error) {
	note := &models.Notification{
		ID:        uuid.NewString(),
		Recipient: recipient,
		Template:  string(kind),
		Channel:   m.transport.Name(),
		Status:    "failed",
		SentAt:    m.now(),
	}

	if !validation.ValidateEmail(recipient) {
		return note, apperrors.NewNotificationSendFailedError(string(kind), fmt.Errorf("invalid recipient %q", recipient))
	}

	subject, body, err := Render(kind, payload)
	if err != nil {
		return note, apperrors.NewNotificationSendFailedError(string(kind), err)
	}
	note.Subject = subject

	msg := m.buildMessage(recipient, subject, body, payload.Attachment)

	if m.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.Timeout)
		defer cancel()
	}

	if err := m.transport.Send(ctx, msg); err != nil {
		m.logger.Error("Email send failed", map[string]interface{}{
			"template": string(kind),
			"error":    err.Error(),
		})
		return note, apperrors.NewNotificationSendFailedError(string(kind), err)
	}

	note.Status = "sent"
	m.logger.Info("Email sent", map[string]interface{}{
		"template":   string(kind),
		"attachment": payload.Attachment != nil,
	})
	return note, nil
}

func (m *Mailer) buildMessage(recipient, subject, body string, doc *models.DocumentHandle) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.config.FromEmail, m.config.FromName)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if doc != nil && len(doc.Content) > 0 {
		content := doc.Content
		msg.Attach(doc.Filename,
			gomail.SetHeader(map[string][]string{"Content-Type": {doc.ContentType}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
		)
	}
	return msg
}
