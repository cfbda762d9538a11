package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"admissions-tracker/internal/models"
)

// MemoryStore keeps records in process. Writers for the same key are
// serialized by a per-key mutex that lives only while some writer holds or
// waits for it; readers get deep copies.
type MemoryStore struct {
	mu      sync.Mutex
	locks   map[models.ApplicantKey]*keyLock
	records map[models.ApplicantKey]*models.ApplicationRecord
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		locks:   make(map[models.ApplicantKey]*keyLock),
		records: make(map[models.ApplicantKey]*models.ApplicationRecord),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func (s *MemoryStore) lock(key models.ApplicantKey) {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &keyLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
}

func (s *MemoryStore) unlock(key models.ApplicantKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.locks[key]
	l.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, key)
	}
}

func (s *MemoryStore) Get(ctx context.Context, key models.ApplicantKey) (*models.ApplicationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) Upsert(ctx context.Context, key models.ApplicantKey, mutate Mutator) (*models.ApplicationRecord, error) {
	s.lock(key)
	defer s.unlock(key)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	current, ok := s.records[key]
	s.mu.Unlock()

	if !ok {
		current = models.NewApplicationRecord(key, s.now())
	}

	working := current.Clone()
	if err := mutate(working); err != nil {
		if errors.Is(err, ErrSkipWrite) {
			return current.Clone(), nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.records[key] = working.Clone()
	s.mu.Unlock()
	return working, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len reports how many applicants are stored.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
