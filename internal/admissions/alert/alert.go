package alert

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "admissions-tracker/internal/common/errors"
	"admissions-tracker/internal/common/logger"
	"admissions-tracker/internal/models"
)

type Publisher interface {
	Publish(ctx context.Context, topicARN, subject, message string, attrs map[string]string) (string, error)
}

// CompletionAlert is the message body staff subscribers receive when an
// applicant's form set is complete and classified.
type CompletionAlert struct {
	Event       string   `json:"event"`
	Applicant   string   `json:"applicant"`
	Name        string   `json:"name"`
	Level       string   `json:"recommendedLevel"`
	Programs    []string `json:"recommendedPrograms"`
	Confidence  int      `json:"confidenceScore"`
	NeedsReview bool     `json:"needsReview"`
	ReportKey   string   `json:"reportKey,omitempty"`
}

type Alerter struct {
	publisher Publisher
	topicARN  string
	logger    logger.Logger
}

func NewAlerter(publisher Publisher, topicARN string, log logger.Logger) *Alerter {
	return &Alerter{
		publisher: publisher,
		topicARN:  topicARN,
		logger:    log.WithFields(map[string]interface{}{"component": "alert"}),
	}
}

func (a *Alerter) ApplicationComplete(ctx context.Context, key models.ApplicantKey, name string, result models.ClassificationResult, doc *models.DocumentHandle) error {
	msg := CompletionAlert{
		Event:       "application_complete",
		Applicant:   key.String(),
		Name:        name,
		Level:       result.Level,
		Programs:    result.Programs,
		Confidence:  result.Confidence,
		NeedsReview: result.Fallback || result.LowConfidence(),
	}
	if doc != nil {
		msg.ReportKey = doc.ObjectKey
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return apperrors.NewAlertPublishFailedError(err)
	}

	attrs := map[string]string{
		"event": msg.Event,
		"level": result.Level,
	}
	subject := fmt.Sprintf("Solicitud completa: %s", name)
	id, err := a.publisher.Publish(ctx, a.topicARN, subject, string(body), attrs)
	if err != nil {
		return apperrors.NewAlertPublishFailedError(err)
	}

	a.logger.Info("Completion alert published", map[string]interface{}{
		"applicant": key.String(),
		"messageId": id,
	})
	return nil
}
