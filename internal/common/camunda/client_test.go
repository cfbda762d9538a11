package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"admissions-tracker/internal/common/errors"
)

var fastRetry = &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestExecuteWithRetryRecovers(t *testing.T) {
	calls := 0
	err := executeWithRetry(context.Background(), fastRetry, "complete-job", func(context.Context) error {
		calls++
		if calls < 3 {
			return stderrors.New("rpc error: code = Unavailable desc = connection refused")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetryExhausted(t *testing.T) {
	calls := 0
	err := executeWithRetry(context.Background(), fastRetry, "complete-job", func(context.Context) error {
		calls++
		return stderrors.New("deadline exceeded")
	})
	assert.Equal(t, 3, calls)
	assert.True(t, errors.HasCode(err, errors.ErrCodeEngineUnavailable))
}

func TestExecuteWithRetryPermanent(t *testing.T) {
	calls := 0
	err := executeWithRetry(context.Background(), fastRetry, "throw-error", func(context.Context) error {
		calls++
		return stderrors.New("job not found")
	})
	assert.Equal(t, 1, calls)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInternal))
}
