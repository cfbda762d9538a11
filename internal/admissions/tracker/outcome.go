package tracker

import (
	"fmt"

	"admissions-tracker/internal/models"
)

type OutcomeKind string

const (
	// Duplicate means the submission's slot was already filled. Nothing
	// was recorded.
	Duplicate OutcomeKind = "duplicate"
	// AcceptedIncomplete means the submission was recorded and required
	// kinds are still missing.
	AcceptedIncomplete OutcomeKind = "accepted_incomplete"
	// AcceptedJustCompleted means this submission filled the last required
	// slot. Exactly one call per applicant sees it.
	AcceptedJustCompleted OutcomeKind = "accepted_just_completed"
	// AcceptedAlreadyComplete means the submission was recorded but the
	// required set was complete before it arrived.
	AcceptedAlreadyComplete OutcomeKind = "accepted_already_complete"
)

// Outcome is the tracker's verdict on one submission. The tracker never
// performs side effects; callers act on the outcome.
type Outcome struct {
	Kind       OutcomeKind
	Count      int
	Required   int
	Missing    []models.FormKind
	Submission models.FormSubmission
	// Record is the state after the call.
	Record *models.ApplicationRecord
}

func (o *Outcome) Accepted() bool {
	return o.Kind != Duplicate
}

func (o *Outcome) MissingLabels() []string {
	return models.Labels(o.Missing)
}

// Progress renders the count as "n/m".
func (o *Outcome) Progress() string {
	return fmt.Sprintf("%d/%d", o.Count, o.Required)
}
