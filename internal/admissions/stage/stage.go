package stage

import (
	"admissions-tracker/internal/admissions/tracker"
	"admissions-tracker/internal/models"
)

type Action string

const (
	Skip             Action = "skip"
	RunPreliminary   Action = "run_preliminary"
	RunComprehensive Action = "run_comprehensive"
)

const (
	ReasonDuplicate       = "duplicate"
	ReasonExtraForm       = "extra_form"
	ReasonAwaitingForms   = "awaiting_forms"
	ReasonSetJustComplete = "set_just_completed"
)

// Decision tells the orchestrator what to do after a tracker outcome.
// Classify is false when the action must not call the classifier, which is
// always the case for Skip and for RunPreliminary unless enabled.
type Decision struct {
	Action   Action
	Reason   string
	Stage    models.Stage
	Classify bool
}

// Selector maps tracker outcomes to stage decisions. It is a pure function
// of its configuration and the outcome.
type Selector struct {
	PreliminaryClassification bool
}

func (s Selector) Select(outcome *tracker.Outcome) Decision {
	switch outcome.Kind {
	case tracker.AcceptedIncomplete:
		return Decision{
			Action:   RunPreliminary,
			Reason:   ReasonAwaitingForms,
			Stage:    models.StagePreliminary,
			Classify: s.PreliminaryClassification,
		}
	case tracker.AcceptedJustCompleted:
		return Decision{
			Action:   RunComprehensive,
			Reason:   ReasonSetJustComplete,
			Stage:    models.StageComprehensive,
			Classify: true,
		}
	case tracker.AcceptedAlreadyComplete:
		return Decision{Action: Skip, Reason: ReasonExtraForm}
	default:
		return Decision{Action: Skip, Reason: ReasonDuplicate}
	}
}
