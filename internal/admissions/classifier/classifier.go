package classifier

import (
	"context"
	"errors"
	"time"

	apperrors "admissions-tracker/internal/common/errors"
	"admissions-tracker/internal/common/logger"
	"admissions-tracker/internal/models"
)

// Generator turns a prompt into raw model text. The Gemini client and the
// GenAI gateway both satisfy it.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

var ErrDisabled = errors.New("classifier disabled")

const (
	fallbackProgram       = "Certificado en Estudios Bíblicos"
	fallbackJustification = "Error en procesamiento automático. Requiere revisión manual."
	fallbackNotes         = "ATENCIÓN: Clasificación automática falló. Revisar manualmente. " +
		"Para el solicitante: por favor contacte a la oficina de admisiones."
)

// Fallback is the sentinel result used whenever classification fails.
func Fallback(stage models.Stage, now time.Time) models.ClassificationResult {
	return models.ClassificationResult{
		Level:           models.LevelBasicCertificate,
		Programs:        []string{fallbackProgram},
		Justification:   fallbackJustification,
		AdmissionsNotes: fallbackNotes,
		Confidence:      1,
		Stage:           stage,
		Fallback:        true,
		GeneratedAt:     now,
	}
}

type Classifier struct {
	generator Generator
	timeout   time.Duration
	logger    logger.Logger
	now       func() time.Time
}

// New builds a classifier. A nil generator yields fallback results for
// every call.
func New(gen Generator, timeout time.Duration, log logger.Logger) *Classifier {
	return &Classifier{
		generator: gen,
		timeout:   timeout,
		logger:    log.WithFields(map[string]interface{}{"component": "classifier"}),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Classify always returns a usable result. When err is non-nil the result
// is the fallback and err carries CLASSIFIER_FAILED or CLASSIFIER_TIMEOUT.
func (c *Classifier) Classify(ctx context.Context, data models.AggregatedApplicationData) (models.ClassificationResult, error) {
	stage := data.Stage
	if stage == "" {
		stage = models.StagePreliminary
		data.Stage = stage
	}

	result, err := c.classify(ctx, data)
	if err != nil {
		c.logger.Warn("Classification failed, using fallback", map[string]interface{}{
			"applicant": data.Key.String(),
			"stage":     string(stage),
			"error":     err.Error(),
		})
		return Fallback(stage, c.now()), err
	}

	c.logger.Info("Classification completed", map[string]interface{}{
		"applicant":  data.Key.String(),
		"stage":      string(stage),
		"level":      result.Level,
		"confidence": result.Confidence,
	})
	return result, nil
}

func (c *Classifier) classify(ctx context.Context, data models.AggregatedApplicationData) (models.ClassificationResult, error) {
	if c.generator == nil {
		return models.ClassificationResult{}, apperrors.NewClassifierFailedError(ErrDisabled)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	raw, err := c.generator.GenerateText(ctx, BuildPrompt(data))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return models.ClassificationResult{}, apperrors.NewClassifierTimeoutError()
		}
		return models.ClassificationResult{}, apperrors.NewClassifierFailedError(err)
	}

	out, err := parseOutput(raw)
	if err != nil {
		return models.ClassificationResult{}, apperrors.NewClassifierFailedError(err)
	}

	result := out.toResult(data.Stage)
	if data.Stage == models.StagePreliminary && len(result.PendingDocuments) == 0 {
		result.PendingDocuments = models.Labels(data.Missing)
	}
	result.GeneratedAt = c.now()
	return result, nil
}
