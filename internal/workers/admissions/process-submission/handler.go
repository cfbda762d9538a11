package processsubmission

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"admissions-tracker/internal/admissions/orchestrator"
	"admissions-tracker/internal/common/errors"
	"admissions-tracker/internal/common/logger"
	"admissions-tracker/internal/models"
)

const TaskType = "process-form-submission"

type Submitter interface {
	HandleSubmission(ctx context.Context, formID models.FormID, raw map[string]interface{}) *orchestrator.Result
}

// Handler feeds a form submission carried by a process instance through
// the same pipeline as the HTTP webhooks.
type Handler struct {
	config       *Config
	submitter    Submitter
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, submitter Submitter, log logger.Logger) *Handler {
	if config == nil {
		config = DefaultConfig()
	}
	return &Handler{
		config:       config,
		submitter:    submitter,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	start := time.Now()
	h.logger.Info("Processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("build complete command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("complete job %d: %w", job.Key, err)
	}

	h.logger.Info("Job completed", map[string]interface{}{
		"jobKey":   job.Key,
		"status":   output.Status,
		"duration": time.Since(start).String(),
	})
	return nil
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewNormalizationError("", nil, fmt.Sprintf("invalid job variables: %v", err))
	}
	return &input, nil
}

// execute returns an error for every error result so the job is failed or
// a BPMN error is thrown. Success and warning results complete the job.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	formID, ok := models.ParseFormID(input.FormID)
	if !ok {
		return nil, errors.NewUnknownFormError(input.FormID)
	}
	if len(input.Payload) == 0 {
		return nil, errors.NewNormalizationError(string(formID), nil, "payload is empty")
	}

	res := h.submitter.HandleSubmission(ctx, formID, input.Payload)
	if res.Status == orchestrator.StatusError {
		code := res.Code()
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return nil, &errors.StandardError{
			Code:      code,
			Message:   res.Message,
			Retryable: errors.IsRetryableErrorCode(code),
			Metadata:  res.Details,
			Timestamp: time.Now().UTC(),
		}
	}

	return &Output{
		Status:     string(res.Status),
		Message:    res.Message,
		Details:    res.Details,
		HTTPStatus: res.HTTPStatus,
	}, nil
}
