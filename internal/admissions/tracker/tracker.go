package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"admissions-tracker/internal/admissions/store"
	apperrors "admissions-tracker/internal/common/errors"
	"admissions-tracker/internal/common/logger"
	"admissions-tracker/internal/models"
)

// Tracker decides what each submission means for an applicant's form set.
// All decisions run inside store.Upsert, so they are atomic per applicant.
type Tracker struct {
	store    store.Store
	required []models.FormKind
	logger   logger.Logger
	now      func() time.Time
	newID    func() string
}

func New(st store.Store, required []models.FormKind, log logger.Logger) *Tracker {
	if len(required) == 0 {
		required = models.AllFormKinds()
	}
	return &Tracker{
		store:    st,
		required: append([]models.FormKind(nil), required...),
		logger:   log.WithFields(map[string]interface{}{"component": "tracker"}),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

func (t *Tracker) Required() []models.FormKind {
	return append([]models.FormKind(nil), t.required...)
}

// RecordSubmission records fields as a submission of formID unless the
// slot for its kind is already filled.
func (t *Tracker) RecordSubmission(ctx context.Context, key models.ApplicantKey, formID models.FormID, fields models.CanonicalRecord) (*Outcome, error) {
	kind, ok := formID.Kind()
	if !ok {
		return nil, apperrors.NewUnknownFormError(string(formID))
	}

	sub := models.FormSubmission{
		ID:           t.newID(),
		ApplicantKey: key,
		FormID:       formID,
		Kind:         kind,
		Fields:       fields.Clone(),
		ExternalRef:  fields.Get("submission_id"),
		ReceivedAt:   t.now(),
	}
	displayName := fields.Get("applicant_name")

	var outcome Outcome
	rec, err := t.store.Upsert(ctx, key, func(rec *models.ApplicationRecord) error {
		outcome = Outcome{Submission: sub, Required: len(t.required)}

		if rec.HasKind(kind) {
			outcome.Kind = Duplicate
			outcome.Count = rec.CountRequired(t.required)
			outcome.Missing = rec.Missing(t.required)
			return store.ErrSkipWrite
		}

		wasComplete := rec.IsComplete(t.required)

		if rec.DisplayName == "" {
			rec.DisplayName = displayName
		}
		rec.Submissions = append(rec.Submissions, sub)
		rec.UpdatedAt = sub.ReceivedAt

		isComplete := rec.IsComplete(t.required)
		outcome.Count = rec.CountRequired(t.required)
		outcome.Missing = rec.Missing(t.required)

		switch {
		case wasComplete:
			outcome.Kind = AcceptedAlreadyComplete
		case isComplete:
			outcome.Kind = AcceptedJustCompleted
		default:
			outcome.Kind = AcceptedIncomplete
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record submission: %w", err)
	}
	outcome.Record = rec

	t.logger.Info("Submission evaluated", map[string]interface{}{
		"applicant": key.String(),
		"formId":    string(formID),
		"outcome":   string(outcome.Kind),
		"progress":  outcome.Progress(),
	})
	return &outcome, nil
}

// SaveClassification replaces the applicant's latest classification. A
// preliminary result never overwrites a record that has already completed
// or carries a comprehensive result; the stored record is returned as is.
func (t *Tracker) SaveClassification(ctx context.Context, key models.ApplicantKey, result models.ClassificationResult) (*models.ApplicationRecord, error) {
	rec, err := t.store.Upsert(ctx, key, func(rec *models.ApplicationRecord) error {
		if rec.IsNew() {
			return store.ErrNotFound
		}
		if result.Stage == models.StagePreliminary && staleForPreliminary(rec, t.required) {
			return store.ErrSkipWrite
		}
		r := result
		r.Programs = append([]string(nil), result.Programs...)
		r.PendingDocuments = append([]string(nil), result.PendingDocuments...)
		rec.Classification = &r
		rec.UpdatedAt = t.now()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save classification: %w", err)
	}
	return rec, nil
}

func staleForPreliminary(rec *models.ApplicationRecord, required []models.FormKind) bool {
	if rec.IsComplete(required) {
		return true
	}
	return rec.Classification != nil && rec.Classification.Stage == models.StageComprehensive
}

// Record returns the stored record, or store.ErrNotFound.
func (t *Tracker) Record(ctx context.Context, key models.ApplicantKey) (*models.ApplicationRecord, error) {
	return t.store.Get(ctx, key)
}

type SubmissionSummary struct {
	FormID     models.FormID   `json:"formId"`
	Kind       models.FormKind `json:"kind"`
	Label      string          `json:"label"`
	ReceivedAt time.Time       `json:"receivedAt"`
}

// Summary is the read model served to admissions staff.
type Summary struct {
	Exists         bool                         `json:"exists"`
	Email          string                       `json:"email"`
	Name           string                       `json:"name,omitempty"`
	Status         models.LifecycleStatus       `json:"status,omitempty"`
	Progress       string                       `json:"progress,omitempty"`
	SubmittedForms []string                     `json:"submittedForms,omitempty"`
	MissingForms   []string                     `json:"missingForms,omitempty"`
	Submissions    []SubmissionSummary          `json:"submissions,omitempty"`
	Classification *models.ClassificationResult `json:"classification,omitempty"`
	CreatedAt      *time.Time                   `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time                   `json:"updatedAt,omitempty"`
}

func (t *Tracker) Summary(ctx context.Context, key models.ApplicantKey) (*Summary, error) {
	rec, err := t.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return &Summary{Exists: false, Email: key.String()}, nil
	}
	if err != nil {
		return nil, err
	}
	return t.Summarize(rec), nil
}

func (t *Tracker) Summarize(rec *models.ApplicationRecord) *Summary {
	s := &Summary{
		Exists:         true,
		Email:          rec.Key.String(),
		Name:           rec.DisplayName,
		Status:         rec.Status(t.required),
		Progress:       fmt.Sprintf("%d/%d", rec.CountRequired(t.required), len(t.required)),
		SubmittedForms: models.Labels(rec.SubmittedKinds()),
		MissingForms:   models.Labels(rec.Missing(t.required)),
		Classification: rec.Classification,
		CreatedAt:      &rec.CreatedAt,
		UpdatedAt:      &rec.UpdatedAt,
	}
	for _, sub := range rec.Submissions {
		s.Submissions = append(s.Submissions, SubmissionSummary{
			FormID:     sub.FormID,
			Kind:       sub.Kind,
			Label:      sub.Kind.Label(),
			ReceivedAt: sub.ReceivedAt,
		})
	}
	return s
}
