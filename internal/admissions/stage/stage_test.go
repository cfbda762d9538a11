package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"admissions-tracker/internal/admissions/tracker"
	"admissions-tracker/internal/models"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name        string
		preliminary bool
		kind        tracker.OutcomeKind
		want        Decision
	}{
		{
			name: "duplicate skips",
			kind: tracker.Duplicate,
			want: Decision{Action: Skip, Reason: ReasonDuplicate},
		},
		{
			name: "incomplete acknowledges without classifying",
			kind: tracker.AcceptedIncomplete,
			want: Decision{Action: RunPreliminary, Reason: ReasonAwaitingForms, Stage: models.StagePreliminary},
		},
		{
			name:        "incomplete classifies when enabled",
			preliminary: true,
			kind:        tracker.AcceptedIncomplete,
			want:        Decision{Action: RunPreliminary, Reason: ReasonAwaitingForms, Stage: models.StagePreliminary, Classify: true},
		},
		{
			name: "completion runs comprehensive",
			kind: tracker.AcceptedJustCompleted,
			want: Decision{Action: RunComprehensive, Reason: ReasonSetJustComplete, Stage: models.StageComprehensive, Classify: true},
		},
		{
			name:        "extra form is never classified",
			preliminary: true,
			kind:        tracker.AcceptedAlreadyComplete,
			want:        Decision{Action: Skip, Reason: ReasonExtraForm},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Selector{PreliminaryClassification: tt.preliminary}.Select(&tracker.Outcome{Kind: tt.kind})
			assert.Equal(t, tt.want, got)
		})
	}
}
