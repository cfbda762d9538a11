package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	CodeInvalidEmail         = "INVALID_EMAIL"
	CodeInvalidPhone         = "INVALID_PHONE"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{7,}$`)
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RequireFields reports every field that is absent or blank in record.
// Values equal to any of the blank sentinels count as blank.
func RequireFields(record map[string]string, fields []string, blank ...string) *ValidationResult {
	result := &ValidationResult{Valid: true}
	for _, f := range fields {
		v := strings.TrimSpace(record[f])
		if v == "" || contains(blank, v) {
			result.add(ValidationError{Field: f, Message: "required field missing", Code: CodeRequiredFieldMissing})
		}
	}
	return result
}

// CheckEmail appends an error when value is present but malformed.
func (vr *ValidationResult) CheckEmail(field, value string) *ValidationResult {
	if value != "" && !ValidateEmail(value) {
		vr.add(ValidationError{Field: field, Message: "invalid email address", Code: CodeInvalidEmail})
	}
	return vr
}

// CheckPhone appends an error when value is present but malformed.
func (vr *ValidationResult) CheckPhone(field, value string) *ValidationResult {
	if value != "" && !ValidatePhone(value) {
		vr.add(ValidationError{Field: field, Message: "invalid phone number", Code: CodeInvalidPhone})
	}
	return vr
}

func (vr *ValidationResult) add(e ValidationError) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, e)
}

func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// FieldsWithCode lists the fields that failed with the given code.
func (vr *ValidationResult) FieldsWithCode(code string) []string {
	var out []string
	for _, err := range vr.Errors {
		if err.Code == code {
			out = append(out, err.Field)
		}
	}
	return out
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
