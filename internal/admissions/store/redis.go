package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "admissions-tracker/internal/common/errors"
	"admissions-tracker/internal/models"
)

// RedisStore keeps each record as one JSON value and applies Upsert as an
// optimistic WATCH/MULTI transaction, retrying when another writer wins.
type RedisStore struct {
	client     redis.UniversalClient
	prefix     string
	maxRetries int
	now        func() time.Time
}

func NewRedisStore(client redis.UniversalClient, prefix string, maxRetries int) *RedisStore {
	if maxRetries <= 0 {
		maxRetries = 10
	}
	return &RedisStore{
		client:     client,
		prefix:     prefix,
		maxRetries: maxRetries,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *RedisStore) redisKey(key models.ApplicantKey) string {
	return s.prefix + string(key)
}

func (s *RedisStore) Get(ctx context.Context, key models.ApplicantKey) (*models.ApplicationRecord, error) {
	data, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("get", err)
	}
	return decodeRecord(data)
}

func (s *RedisStore) Upsert(ctx context.Context, key models.ApplicantKey, mutate Mutator) (*models.ApplicationRecord, error) {
	rk := s.redisKey(key)

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		var result *models.ApplicationRecord
		var mutateErr error

		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			before, err := s.read(ctx, tx, key, rk)
			if err != nil {
				return err
			}

			working := before.Clone()
			if err := mutate(working); err != nil {
				if errors.Is(err, ErrSkipWrite) {
					result = before
					return nil
				}
				mutateErr = err
				return nil
			}

			payload, err := json.Marshal(working)
			if err != nil {
				mutateErr = fmt.Errorf("encode record: %w", err)
				return nil
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, rk, payload, 0)
				return nil
			})
			if err == nil {
				result = working
			}
			return err
		}, rk)

		switch {
		case mutateErr != nil:
			return nil, mutateErr
		case err == nil:
			return result, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		default:
			return nil, apperrors.NewStoreUnavailableError("upsert", err)
		}
	}

	return nil, apperrors.NewStoreConflictError(string(key), s.maxRetries)
}

func (s *RedisStore) read(ctx context.Context, tx *redis.Tx, key models.ApplicantKey, rk string) (*models.ApplicationRecord, error) {
	data, err := tx.Get(ctx, rk).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewApplicationRecord(key, s.now()), nil
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(data)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func decodeRecord(data []byte) (*models.ApplicationRecord, error) {
	var rec models.ApplicationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}
