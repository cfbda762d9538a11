package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "admissions-tracker/internal/common/errors"
	"admissions-tracker/internal/models"
)

// PostgresSchema creates the applicant table and the append-only
// submission log.
var PostgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS applicants (
		applicant_key  TEXT PRIMARY KEY,
		display_name   TEXT NOT NULL DEFAULT '',
		classification JSONB,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS form_submissions (
		id            TEXT PRIMARY KEY,
		applicant_key TEXT NOT NULL REFERENCES applicants (applicant_key),
		form_id       TEXT NOT NULL,
		form_kind     TEXT NOT NULL,
		fields        JSONB NOT NULL,
		external_ref  TEXT NOT NULL DEFAULT '',
		received_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS form_submissions_applicant_idx
		ON form_submissions (applicant_key, received_at)`,
}

const (
	insertApplicantQuery = `
		INSERT INTO applicants (applicant_key, display_name, created_at, updated_at)
		VALUES ($1, '', $2, $2)
		ON CONFLICT (applicant_key) DO NOTHING`

	lockApplicantQuery = `
		SELECT display_name, classification, created_at, updated_at
		FROM applicants
		WHERE applicant_key = $1
		FOR UPDATE`

	selectApplicantQuery = `
		SELECT display_name, classification, created_at, updated_at
		FROM applicants
		WHERE applicant_key = $1`

	selectSubmissionsQuery = `
		SELECT id, form_id, form_kind, fields, external_ref, received_at
		FROM form_submissions
		WHERE applicant_key = $1
		ORDER BY received_at, id`

	insertSubmissionQuery = `
		INSERT INTO form_submissions (id, applicant_key, form_id, form_kind, fields, external_ref, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	updateApplicantQuery = `
		UPDATE applicants
		SET display_name = $2, classification = $3, updated_at = $4
		WHERE applicant_key = $1`
)

// PostgresStore serializes writers per applicant with a row lock taken
// inside the Upsert transaction.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (s *PostgresStore) Get(ctx context.Context, key models.ApplicantKey) (*models.ApplicationRecord, error) {
	rec, err := s.load(ctx, s.db, selectApplicantQuery, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("get", err)
	}
	return rec, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, key models.ApplicantKey, mutate Mutator) (*models.ApplicationRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertApplicantQuery, string(key), s.now()); err != nil {
		return nil, apperrors.NewStoreUnavailableError("insert applicant", err)
	}

	before, err := s.load(ctx, tx, lockApplicantQuery, key)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("lock applicant", err)
	}

	working := before.Clone()
	if err := mutate(working); err != nil {
		if errors.Is(err, ErrSkipWrite) {
			return before, nil
		}
		return nil, err
	}

	if len(working.Submissions) < len(before.Submissions) {
		return nil, fmt.Errorf("submission log is append-only: had %d, got %d", len(before.Submissions), len(working.Submissions))
	}
	for _, sub := range working.Submissions[len(before.Submissions):] {
		fields, err := json.Marshal(sub.Fields)
		if err != nil {
			return nil, fmt.Errorf("encode submission fields: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertSubmissionQuery,
			sub.ID, string(key), string(sub.FormID), string(sub.Kind), fields, sub.ExternalRef, sub.ReceivedAt,
		); err != nil {
			return nil, apperrors.NewStoreUnavailableError("insert submission", err)
		}
	}

	var classification []byte
	if working.Classification != nil {
		if classification, err = json.Marshal(working.Classification); err != nil {
			return nil, fmt.Errorf("encode classification: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, updateApplicantQuery,
		string(key), working.DisplayName, classification, working.UpdatedAt,
	); err != nil {
		return nil, apperrors.NewStoreUnavailableError("update applicant", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewStoreUnavailableError("commit", err)
	}
	return working, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) load(ctx context.Context, q queryer, applicantQuery string, key models.ApplicantKey) (*models.ApplicationRecord, error) {
	rec := &models.ApplicationRecord{Key: key}
	var classification []byte
	if err := q.QueryRowContext(ctx, applicantQuery, string(key)).
		Scan(&rec.DisplayName, &classification, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if len(classification) > 0 {
		rec.Classification = &models.ClassificationResult{}
		if err := json.Unmarshal(classification, rec.Classification); err != nil {
			return nil, fmt.Errorf("decode classification: %w", err)
		}
	}

	rows, err := q.QueryContext(ctx, selectSubmissionsQuery, string(key))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sub    models.FormSubmission
			formID string
			kind   string
			fields []byte
		)
		if err := rows.Scan(&sub.ID, &formID, &kind, &fields, &sub.ExternalRef, &sub.ReceivedAt); err != nil {
			return nil, err
		}
		sub.ApplicantKey = key
		sub.FormID = models.FormID(formID)
		sub.Kind = models.FormKind(kind)
		if err := json.Unmarshal(fields, &sub.Fields); err != nil {
			return nil, fmt.Errorf("decode submission %s: %w", sub.ID, err)
		}
		rec.Submissions = append(rec.Submissions, sub)
	}
	return rec, rows.Err()
}
