package orchestrator

import (
	"net/http"

	apperrors "admissions-tracker/internal/common/errors"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Result is what HandleSubmission reports to the ingress layer.
// HTTPStatus is 200 for success and warning.
type Result struct {
	Status     Status                 `json:"status"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
}

func success(message string, details map[string]interface{}) *Result {
	return &Result{Status: StatusSuccess, Message: message, Details: details, HTTPStatus: http.StatusOK}
}

func warning(message string, details map[string]interface{}) *Result {
	return &Result{Status: StatusWarning, Message: message, Details: details, HTTPStatus: http.StatusOK}
}

// failure never exposes internal error text; client errors carry the
// field list so the form host can tell what was wrong.
func failure(err error) *Result {
	stdErr := apperrors.AsStandard(err)
	status := apperrors.HTTPStatus(stdErr.Code)

	details := map[string]interface{}{"code": string(stdErr.Code)}
	if status < http.StatusInternalServerError {
		if stdErr.Details != "" {
			details["reason"] = stdErr.Details
		}
		if missing, ok := stdErr.Metadata["missingFields"]; ok {
			details["missingFields"] = missing
		}
	}

	return &Result{
		Status:     StatusError,
		Message:    stdErr.Message,
		Details:    details,
		HTTPStatus: status,
	}
}

// Code returns the error code carried by an error result.
func (r *Result) Code() apperrors.ErrorCode {
	if r.Details == nil {
		return ""
	}
	code, _ := r.Details["code"].(string)
	return apperrors.ErrorCode(code)
}
