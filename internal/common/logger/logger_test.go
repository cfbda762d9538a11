package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestMapToZapFields(t *testing.T) {
	assert.Nil(t, mapToZapFields(nil))

	fields := mapToZapFields(map[string]interface{}{
		"applicant": "ana@example.com",
		"cause":     errors.New("boom"),
	})
	assert.Len(t, fields, 2)
	for _, f := range fields {
		if f.Key == "cause" {
			assert.Equal(t, zapcore.ErrorType, f.Type)
		}
	}
}

func TestLoggerChaining(t *testing.T) {
	log := NewTestLogger(t).
		WithFields(map[string]interface{}{"component": "test"}).
		WithError(errors.New("x")).
		With(map[string]interface{}{"k": 1})

	log.Debug("debug", nil)
	log.Info("info", map[string]interface{}{"a": "b"})
	log.Warn("warn", nil)
	log.Error("error", nil)

	NewNoOpLogger().Info("discarded", nil)
}

func TestNewFallsBackOnBadOutput(t *testing.T) {
	l := New("info", "json", "/nonexistent-dir/for/logger/out.log")
	assert.NotNil(t, l)
}
