package crm

import (
	"context"
	"fmt"
	"strings"

	"admissions-tracker/internal/admissions/tracker"
	apperrors "admissions-tracker/internal/common/errors"
	"admissions-tracker/internal/common/logger"
	"admissions-tracker/internal/common/zoho"
	"admissions-tracker/internal/models"
)

const leadSource = "Formulario de Admisión"

type ContactClient interface {
	UpsertContact(ctx context.Context, contact *zoho.Contact) (string, bool, error)
}

// Syncer mirrors applicant progress onto a CRM contact keyed by the
// normalized email.
type Syncer struct {
	client ContactClient
	logger logger.Logger
}

func NewSyncer(client ContactClient, log logger.Logger) *Syncer {
	return &Syncer{
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": "crm"}),
	}
}

// Sync upserts the contact for summary. fields is the latest accepted
// submission and supplies name and phone.
func (s *Syncer) Sync(ctx context.Context, summary *tracker.Summary, formID models.FormID, fields models.CanonicalRecord) (string, error) {
	contact := ContactFor(summary, formID, fields)

	id, created, err := s.client.UpsertContact(ctx, contact)
	if err != nil {
		return "", apperrors.NewCRMSyncFailedError(err)
	}

	s.logger.Info("CRM contact synced", map[string]interface{}{
		"applicant": summary.Email,
		"contactId": id,
		"created":   created,
	})
	return id, nil
}

func ContactFor(summary *tracker.Summary, formID models.FormID, fields models.CanonicalRecord) *zoho.Contact {
	first := fields.Get("applicant_first_name")
	last := fields.Get("applicant_last_name")
	if first == "" && last == "" {
		first, last = splitName(summary.Name)
	}
	if last == "" {
		// Zoho rejects contacts without a last name.
		last = first
	}

	phone := fields.Get("phone")
	if phone == "" {
		phone = fields.Get("whatsapp")
	}

	c := &zoho.Contact{
		Email:      summary.Email,
		FirstName:  first,
		LastName:   last,
		Phone:      phone,
		Source:     leadSource,
		Status:     string(summary.Status),
		FormsCount: len(summary.SubmittedForms),
		LastForm:   string(formID),
	}
	if summary.Classification != nil {
		c.Level = summary.Classification.Level
		c.Description = fmt.Sprintf("Programas recomendados: %s", strings.Join(summary.Classification.Programs, ", "))
	}
	return c
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
