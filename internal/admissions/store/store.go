// Package store persists ApplicationRecords. Every implementation applies
// Upsert atomically per applicant key.
package store

import (
	"context"
	"errors"

	"admissions-tracker/internal/models"
)

var (
	ErrNotFound = errors.New("application record not found")

	// ErrSkipWrite, returned by a Mutator, ends Upsert without persisting.
	// Upsert then returns the unchanged record and a nil error.
	ErrSkipWrite = errors.New("skip write")
)

// Mutator edits rec in place. It may run more than once when an
// implementation retries on conflict, so it must not keep side effects
// outside rec between calls.
type Mutator func(rec *models.ApplicationRecord) error

type Store interface {
	Get(ctx context.Context, key models.ApplicantKey) (*models.ApplicationRecord, error)
	Upsert(ctx context.Context, key models.ApplicantKey, mutate Mutator) (*models.ApplicationRecord, error)
	Ping(ctx context.Context) error
}
