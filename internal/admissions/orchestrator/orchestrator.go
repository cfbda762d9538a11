package orchestrator

import (
	"context"
	"fmt"
	"time"

	"admissions-tracker/internal/admissions/classifier"
	"admissions-tracker/internal/admissions/mailer"
	"admissions-tracker/internal/admissions/stage"
	"admissions-tracker/internal/admissions/tracker"
	apperrors "admissions-tracker/internal/common/errors"
	"admissions-tracker/internal/common/logger"
	"admissions-tracker/internal/common/metrics"
	"admissions-tracker/internal/models"
)

type Normalizer interface {
	Normalize(formID models.FormID, raw map[string]interface{}) (models.CanonicalRecord, error)
}

type Classifier interface {
	Classify(ctx context.Context, data models.AggregatedApplicationData) (models.ClassificationResult, error)
}

type Reporter interface {
	Render(ctx context.Context, key models.ApplicantKey, name string, rec models.CanonicalRecord, result models.ClassificationResult) (*models.DocumentHandle, error)
}

type Mailer interface {
	Send(ctx context.Context, recipient string, kind mailer.Kind, payload mailer.Payload) (*models.Notification, error)
}

type ContactSyncer interface {
	Sync(ctx context.Context, summary *tracker.Summary, formID models.FormID, fields models.CanonicalRecord) (string, error)
}

type SearchIndexer interface {
	Upsert(ctx context.Context, summary *tracker.Summary) error
}

type CompletionAlerter interface {
	ApplicationComplete(ctx context.Context, key models.ApplicantKey, name string, result models.ClassificationResult, doc *models.DocumentHandle) error
}

type Config struct {
	AdmissionsRecipient string
	DuplicateWarning    bool
	ReportTimeout       time.Duration
	HookTimeout         time.Duration
}

// Deps are the pipeline collaborators. CRM, Search and Alerts are optional
// and must be left nil when disabled.
type Deps struct {
	Normalizer Normalizer
	Tracker    *tracker.Tracker
	Selector   stage.Selector
	Classifier Classifier
	Reporter   Reporter
	Mailer     Mailer
	CRM        ContactSyncer
	Search     SearchIndexer
	Alerts     CompletionAlerter
}

// Orchestrator runs one submission through normalization, tracking and the
// side effects its outcome calls for. Only the tracker step is fatal; every
// later step is logged and counted on failure.
type Orchestrator struct {
	config Config
	deps   Deps
	logger logger.Logger
}

func New(cfg Config, deps Deps, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		config: cfg,
		deps:   deps,
		logger: log.WithFields(map[string]interface{}{"component": "orchestrator"}),
	}
}

func (o *Orchestrator) HandleSubmission(ctx context.Context, formID models.FormID, raw map[string]interface{}) *Result {
	start := time.Now()
	metrics.PipelineInflight.Inc()
	defer func() {
		metrics.PipelineInflight.Dec()
		metrics.PipelineDuration.WithLabelValues(string(formID)).Observe(time.Since(start).Seconds())
	}()

	fields, err := o.deps.Normalizer.Normalize(formID, raw)
	if err != nil {
		return o.reject(formID, err)
	}

	key, err := models.NewApplicantKey(fields.Get("email"))
	if err != nil {
		return o.reject(formID, apperrors.NewNormalizationError(string(formID), []string{"email"}, err.Error()))
	}

	outcome, err := o.deps.Tracker.RecordSubmission(ctx, key, formID, fields)
	if err != nil {
		return o.reject(formID, err)
	}
	metrics.SubmissionsTotal.WithLabelValues(string(formID), string(outcome.Kind)).Inc()

	decision := o.deps.Selector.Select(outcome)
	log := o.logger.WithFields(map[string]interface{}{
		"applicant": key.String(),
		"formId":    string(formID),
		"outcome":   string(outcome.Kind),
	})
	log.Info("Stage selected", map[string]interface{}{
		"action": string(decision.Action),
		"reason": decision.Reason,
	})

	switch decision.Action {
	case stage.RunPreliminary:
		return o.handlePreliminary(ctx, log, outcome, decision, fields)
	case stage.RunComprehensive:
		return o.handleComprehensive(ctx, log, outcome, fields)
	}

	if decision.Reason == stage.ReasonDuplicate {
		return o.handleDuplicate(ctx, log, outcome, fields)
	}

	o.runHooks(ctx, log, outcome.Record, formID, fields)
	return success("Extra form received", map[string]interface{}{
		"applicant": key.String(),
		"form":      outcome.Submission.Kind.Label(),
		"progress":  outcome.Progress(),
	})
}

func (o *Orchestrator) reject(formID models.FormID, err error) *Result {
	res := failure(err)
	metrics.SubmissionsTotal.WithLabelValues(string(formID), "rejected").Inc()

	fields := map[string]interface{}{"formId": string(formID), "code": string(res.Code())}
	if res.HTTPStatus >= 500 {
		fields["error"] = err.Error()
		o.logger.Error("Submission failed", fields)
	} else {
		o.logger.Warn("Submission rejected", fields)
	}
	return res
}

func (o *Orchestrator) handleDuplicate(ctx context.Context, log logger.Logger, outcome *tracker.Outcome, fields models.CanonicalRecord) *Result {
	key := outcome.Submission.ApplicantKey
	details := map[string]interface{}{
		"applicant":    key.String(),
		"form":         outcome.Submission.Kind.Label(),
		"progress":     outcome.Progress(),
		"missingForms": outcome.MissingLabels(),
		"emailSent":    false,
	}

	if !o.config.DuplicateWarning {
		return warning("Duplicate form submission detected", details)
	}

	_, err := o.deps.Mailer.Send(ctx, key.String(), mailer.KindDuplicateWarning, mailer.Payload{
		ApplicantName:  applicantName(outcome.Record, fields),
		ApplicantEmail: key.String(),
		FormLabel:      outcome.Submission.Kind.Label(),
		Progress:       outcome.Progress(),
		MissingForms:   outcome.MissingLabels(),
	})
	if err != nil {
		o.stepFailed(log, "duplicate_warning", err)
		return warning("Duplicate form submission detected", details)
	}

	details["emailSent"] = true
	return warning("Duplicate form submission detected - warning email sent", details)
}

func (o *Orchestrator) handlePreliminary(ctx context.Context, log logger.Logger, outcome *tracker.Outcome, decision stage.Decision, fields models.CanonicalRecord) *Result {
	key := outcome.Submission.ApplicantKey
	rec := outcome.Record
	details := map[string]interface{}{
		"applicant":    key.String(),
		"form":         outcome.Submission.Kind.Label(),
		"progress":     outcome.Progress(),
		"missingForms": outcome.MissingLabels(),
	}

	var preliminary *models.ClassificationResult
	if decision.Classify {
		data := models.AggregateSubmission(rec, outcome.Submission, o.deps.Tracker.Required())
		result, err := o.classify(ctx, log, data)
		// A fallback is for staff review only and is not shown to the applicant.
		if err == nil {
			preliminary = &result
			if updated, err := o.deps.Tracker.SaveClassification(ctx, key, result); err != nil {
				o.stepFailed(log, "save_classification", err)
			} else {
				rec = updated
			}
			details["preliminaryLevel"] = result.Level
		}
	}

	_, err := o.deps.Mailer.Send(ctx, key.String(), mailer.KindAcknowledgment, mailer.Payload{
		ApplicantName:  applicantName(rec, fields),
		ApplicantEmail: key.String(),
		FormLabel:      outcome.Submission.Kind.Label(),
		Progress:       outcome.Progress(),
		MissingForms:   outcome.MissingLabels(),
		Classification: preliminary,
	})
	details["emailSent"] = err == nil
	if err != nil {
		o.stepFailed(log, "acknowledgment", err)
	}

	o.runHooks(ctx, log, rec, outcome.Submission.FormID, fields)

	if err != nil {
		return success("Form received", details)
	}
	return success("Form received, acknowledgment sent", details)
}

func (o *Orchestrator) handleComprehensive(ctx context.Context, log logger.Logger, outcome *tracker.Outcome, fields models.CanonicalRecord) *Result {
	key := outcome.Submission.ApplicantKey
	rec := outcome.Record

	data := models.AggregateRecord(rec, o.deps.Tracker.Required(), models.StageComprehensive)
	result, _ := o.classify(ctx, log, data)

	if updated, err := o.deps.Tracker.SaveClassification(ctx, key, result); err != nil {
		o.stepFailed(log, "save_classification", err)
	} else {
		rec = updated
	}

	name := applicantName(rec, fields)
	doc := o.renderReport(ctx, log, key, name, data.Primary(), result)

	_, mailErr := o.deps.Mailer.Send(ctx, o.config.AdmissionsRecipient, mailer.KindFinalRecommendation, mailer.Payload{
		ApplicantName:  name,
		ApplicantEmail: key.String(),
		Classification: &result,
		Attachment:     doc,
	})
	if mailErr != nil {
		o.stepFailed(log, "final_email", mailErr)
	}

	if o.deps.Alerts != nil {
		hookCtx, cancel := o.hookContext(ctx)
		if err := o.deps.Alerts.ApplicationComplete(hookCtx, key, name, result, doc); err != nil {
			o.stepFailed(log, "alert", err)
		}
		cancel()
	}

	o.runHooks(ctx, log, rec, outcome.Submission.FormID, fields)

	details := map[string]interface{}{
		"applicant": key.String(),
		"name":      name,
		"form":      outcome.Submission.Kind.Label(),
		"progress":  outcome.Progress(),
		"classification": map[string]interface{}{
			"recommendedLevel":    result.Level,
			"recommendedPrograms": result.Programs,
			"confidenceScore":     result.Confidence,
			"fallback":            result.Fallback,
		},
		"reportGenerated": doc != nil,
		"emailSent":       mailErr == nil,
	}
	if doc != nil {
		details["report"] = doc.Filename
	}
	return success("Application complete, classification sent", details)
}

// classify always yields a usable result. A classifier that fails without
// its own fallback gets the sentinel one.
func (o *Orchestrator) classify(ctx context.Context, log logger.Logger, data models.AggregatedApplicationData) (models.ClassificationResult, error) {
	result, err := o.deps.Classifier.Classify(ctx, data)
	if err != nil {
		metrics.ClassificationsTotal.WithLabelValues(string(data.Stage), metrics.ResultFallback).Inc()
		o.stepFailed(log, "classification", err)
		if result.Level == "" {
			result = classifier.Fallback(data.Stage, time.Now().UTC())
		}
		return result, err
	}
	metrics.ClassificationsTotal.WithLabelValues(string(data.Stage), metrics.ResultOK).Inc()
	return result, nil
}

func (o *Orchestrator) renderReport(ctx context.Context, log logger.Logger, key models.ApplicantKey, name string, rec models.CanonicalRecord, result models.ClassificationResult) *models.DocumentHandle {
	if o.config.ReportTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.ReportTimeout)
		defer cancel()
	}

	doc, err := o.deps.Reporter.Render(ctx, key, name, rec, result)
	if err != nil {
		o.stepFailed(log, "report", err)
		return nil
	}
	return doc
}

// runHooks mirrors the record into the CRM and the search index.
func (o *Orchestrator) runHooks(ctx context.Context, log logger.Logger, rec *models.ApplicationRecord, formID models.FormID, fields models.CanonicalRecord) {
	if rec == nil || (o.deps.CRM == nil && o.deps.Search == nil) {
		return
	}
	summary := o.deps.Tracker.Summarize(rec)

	if o.deps.CRM != nil {
		hookCtx, cancel := o.hookContext(ctx)
		if _, err := o.deps.CRM.Sync(hookCtx, summary, formID, fields); err != nil {
			o.stepFailed(log, "crm", err)
		}
		cancel()
	}

	if o.deps.Search != nil {
		hookCtx, cancel := o.hookContext(ctx)
		if err := o.deps.Search.Upsert(hookCtx, summary); err != nil {
			o.stepFailed(log, "search", err)
		}
		cancel()
	}
}

func (o *Orchestrator) hookContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.config.HookTimeout > 0 {
		return context.WithTimeout(ctx, o.config.HookTimeout)
	}
	return context.WithCancel(ctx)
}

func (o *Orchestrator) stepFailed(log logger.Logger, step string, err error) {
	metrics.SideEffectFailures.WithLabelValues(step).Inc()
	stdErr := apperrors.AsStandard(err)
	log.Warn(fmt.Sprintf("Step %s failed", step), map[string]interface{}{
		"step":    step,
		"code":    string(stdErr.Code),
		"details": stdErr.Details,
	})
}

func applicantName(rec *models.ApplicationRecord, fields models.CanonicalRecord) string {
	if rec != nil && rec.DisplayName != "" {
		return rec.DisplayName
	}
	return fields.Get("applicant_name")
}
