// internal/models/notification.go
package models

import "time"

// Notification is the log entry for one outbound message.
type Notification struct {
	ID        string    `json:"id"`
	Recipient string    `json:"recipient"`
	Template  string    `json:"template"`
	Channel   string    `json:"channel"` // "ses", "smtp", "log"
	Status    string    `json:"status"`  // "sent", "failed"
	Subject   string    `json:"subject"`
	SentAt    time.Time `json:"sentAt"`
}

// DocumentHandle points at a rendered report.
type DocumentHandle struct {
	Bucket      string `json:"bucket,omitempty"`
	ObjectKey   string `json:"objectKey,omitempty"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"-"`
}
