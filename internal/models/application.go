// internal/models/application.go
package models

import "time"

// FormSubmission is one accepted webhook delivery. It is never mutated after
// it is appended to an ApplicationRecord.
type FormSubmission struct {
	ID           string          `json:"id"`
	ApplicantKey ApplicantKey    `json:"applicantKey"`
	FormID       FormID          `json:"formId"`
	Kind         FormKind        `json:"kind"`
	Fields       CanonicalRecord `json:"fields"`
	ExternalRef  string          `json:"externalRef,omitempty"`
	ReceivedAt   time.Time       `json:"receivedAt"`
}

// ApplicationRecord is the per-applicant aggregate. Submissions is the
// append-only log; submitted kinds and lifecycle status are derived from it.
type ApplicationRecord struct {
	Key            ApplicantKey          `json:"key"`
	DisplayName    string                `json:"displayName"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
	Submissions    []FormSubmission      `json:"submissions"`
	Classification *ClassificationResult `json:"classification,omitempty"`
}

func NewApplicationRecord(key ApplicantKey, now time.Time) *ApplicationRecord {
	return &ApplicationRecord{Key: key, CreatedAt: now, UpdatedAt: now}
}

// IsNew reports whether the record has never been persisted with a submission.
func (r *ApplicationRecord) IsNew() bool {
	return len(r.Submissions) == 0 && r.Classification == nil
}

// Latest returns the most recent submission for kind, or nil.
func (r *ApplicationRecord) Latest(kind FormKind) *FormSubmission {
	for i := len(r.Submissions) - 1; i >= 0; i-- {
		if r.Submissions[i].Kind == kind {
			return &r.Submissions[i]
		}
	}
	return nil
}

func (r *ApplicationRecord) HasKind(kind FormKind) bool {
	return r.Latest(kind) != nil
}

// SubmittedKinds lists filled slots in AllFormKinds order.
func (r *ApplicationRecord) SubmittedKinds() []FormKind {
	var out []FormKind
	for _, k := range AllFormKinds() {
		if r.HasKind(k) {
			out = append(out, k)
		}
	}
	return out
}

// Missing lists the required kinds not yet submitted, in required order.
func (r *ApplicationRecord) Missing(required []FormKind) []FormKind {
	var out []FormKind
	for _, k := range required {
		if !r.HasKind(k) {
			out = append(out, k)
		}
	}
	return out
}

func (r *ApplicationRecord) IsComplete(required []FormKind) bool {
	return len(required) > 0 && len(r.Missing(required)) == 0
}

// CountRequired is the number of required slots filled.
func (r *ApplicationRecord) CountRequired(required []FormKind) int {
	return len(required) - len(r.Missing(required))
}

type LifecycleStatus string

const (
	StatusIncomplete LifecycleStatus = "incomplete"
	StatusPending    LifecycleStatus = "pending"
	StatusInReview   LifecycleStatus = "in_review"
	StatusComplete   LifecycleStatus = "complete"
)

// Status is always recomputed; it is never stored.
func (r *ApplicationRecord) Status(required []FormKind) LifecycleStatus {
	switch {
	case r.IsComplete(required) && r.Classification != nil:
		return StatusComplete
	case r.IsComplete(required):
		return StatusInReview
	case r.HasKind(FormKindOfficialApplication):
		return StatusPending
	default:
		return StatusIncomplete
	}
}

// Clone deep-copies the record so stores can hand out snapshots.
func (r *ApplicationRecord) Clone() *ApplicationRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Submissions = make([]FormSubmission, len(r.Submissions))
	for i, s := range r.Submissions {
		s.Fields = s.Fields.Clone()
		out.Submissions[i] = s
	}
	if r.Classification != nil {
		c := *r.Classification
		c.Programs = append([]string(nil), r.Classification.Programs...)
		c.PendingDocuments = append([]string(nil), r.Classification.PendingDocuments...)
		out.Classification = &c
	}
	return &out
}
