// internal/models/applicant.go
package models

import (
	"errors"
	"strings"
)

var ErrEmptyApplicantKey = errors.New("applicant email is empty")

// ApplicantKey is the normalized applicant email. Build it only through
// NewApplicantKey so every entry point agrees on case and whitespace.
type ApplicantKey string

func NewApplicantKey(email string) (ApplicantKey, error) {
	k := strings.ToLower(strings.TrimSpace(email))
	if k == "" {
		return "", ErrEmptyApplicantKey
	}
	return ApplicantKey(k), nil
}

func (k ApplicantKey) String() string {
	return string(k)
}

// NotSpecified fills optional canonical fields the form left empty.
const NotSpecified = "No especificado"

// CanonicalRecord is a normalized form payload keyed by canonical field name.
type CanonicalRecord map[string]string

// Get returns the field, or "" when it is absent or holds NotSpecified.
func (r CanonicalRecord) Get(field string) string {
	v := r[field]
	if v == NotSpecified {
		return ""
	}
	return v
}

// Display returns the field for rendering, falling back to NotSpecified.
func (r CanonicalRecord) Display(field string) string {
	if v := r.Get(field); v != "" {
		return v
	}
	return NotSpecified
}

func (r CanonicalRecord) Clone() CanonicalRecord {
	if r == nil {
		return nil
	}
	out := make(CanonicalRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
