// internal/models/aggregated.go
package models

// AggregatedApplicationData is the single input shape the classifier and
// reporter consume, whichever path built it.
type AggregatedApplicationData struct {
	Key            ApplicantKey    `json:"key"`
	ApplicantName  string          `json:"applicantName"`
	Stage          Stage           `json:"stage"`
	OfficialFormID FormID          `json:"officialFormId,omitempty"`
	Official       CanonicalRecord `json:"official,omitempty"`
	Ministry       CanonicalRecord `json:"ministry,omitempty"`
	Recommendation CanonicalRecord `json:"recommendation,omitempty"`
	Submitted      []FormKind      `json:"submitted"`
	Missing        []FormKind      `json:"missing"`
	Status         LifecycleStatus `json:"status"`
}

// AggregateRecord collects the latest submission of every kind on rec.
func AggregateRecord(rec *ApplicationRecord, required []FormKind, stage Stage) AggregatedApplicationData {
	agg := AggregatedApplicationData{
		Key:           rec.Key,
		ApplicantName: rec.DisplayName,
		Stage:         stage,
		Submitted:     rec.SubmittedKinds(),
		Missing:       rec.Missing(required),
		Status:        rec.Status(required),
	}
	if s := rec.Latest(FormKindOfficialApplication); s != nil {
		agg.OfficialFormID = s.FormID
		agg.Official = s.Fields.Clone()
	}
	if s := rec.Latest(FormKindMinistryExperience); s != nil {
		agg.Ministry = s.Fields.Clone()
	}
	if s := rec.Latest(FormKindPastoralRecommendation); s != nil {
		agg.Recommendation = s.Fields.Clone()
	}
	return agg
}

// AggregateSubmission builds data from one submission only, for the
// preliminary stage.
func AggregateSubmission(rec *ApplicationRecord, sub FormSubmission, required []FormKind) AggregatedApplicationData {
	agg := AggregatedApplicationData{
		Key:           rec.Key,
		ApplicantName: rec.DisplayName,
		Stage:         StagePreliminary,
		Submitted:     rec.SubmittedKinds(),
		Missing:       rec.Missing(required),
		Status:        rec.Status(required),
	}
	switch sub.Kind {
	case FormKindOfficialApplication:
		agg.OfficialFormID = sub.FormID
		agg.Official = sub.Fields.Clone()
	case FormKindMinistryExperience:
		agg.Ministry = sub.Fields.Clone()
	case FormKindPastoralRecommendation:
		agg.Recommendation = sub.Fields.Clone()
	}
	return agg
}

// Primary returns the richest record available for display purposes,
// preferring the official application.
func (a AggregatedApplicationData) Primary() CanonicalRecord {
	switch {
	case a.Official != nil:
		return a.Official
	case a.Ministry != nil:
		return a.Ministry
	default:
		return a.Recommendation
	}
}
