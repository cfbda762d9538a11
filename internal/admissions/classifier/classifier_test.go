package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "admissions-tracker/internal/common/errors"
	"admissions-tracker/internal/common/logger"
	"admissions-tracker/internal/models"
)

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func comprehensiveData() models.AggregatedApplicationData {
	return models.AggregatedApplicationData{
		Key:           "ana@example.com",
		ApplicantName: "Ana Ruiz",
		Stage:         models.StageComprehensive,
		Official: models.CanonicalRecord{
			"program_interest":       "Teología",
			"education_level":        "Licenciatura",
			"ministerial_experience": "Rol: Pastor | Años asistiendo: 12 | Iglesia: Vida Nueva",
			"phone_mobile":           "555-0100",
		},
		Ministry:       models.CanonicalRecord{"ministry_score": "72", "church_name": "Vida Nueva", "whatsapp": "555-0101"},
		Recommendation: models.CanonicalRecord{"recommendation_strength": "Strong", "recommendation_score": "85", "recommendation_flags": models.NotSpecified},
		Submitted:      models.AllFormKinds(),
		Status:         models.StatusInReview,
	}
}

const validOutput = `{
  "recommended_level": "Postgrado",
  "recommended_programs": ["Maestría en Divinidad", "Maestría en Teología"],
  "justification": "Licenciatura completa y amplia experiencia pastoral.",
  "admissions_notes": "Final recommendation.",
  "confidence_score": 8.6,
  "readiness_assessment": "Listo"
}`

func TestClassifyComprehensive(t *testing.T) {
	var prompt string
	gen := generatorFunc(func(_ context.Context, p string) (string, error) {
		prompt = p
		return "```json\n" + validOutput + "\n```", nil
	})
	c := New(gen, time.Second, logger.NewTestLogger(t))

	result, err := c.Classify(context.Background(), comprehensiveData())
	require.NoError(t, err)

	assert.Equal(t, models.LevelGraduate, result.Level)
	assert.Equal(t, []string{"Maestría en Divinidad", "Maestría en Teología"}, result.Programs)
	assert.Equal(t, 9, result.Confidence)
	assert.Equal(t, models.StageComprehensive, result.Stage)
	assert.Equal(t, "Listo", result.ReadinessAssessment)
	assert.False(t, result.Fallback)
	assert.False(t, result.GeneratedAt.IsZero())

	assert.Contains(t, prompt, "COMPREHENSIVE evaluation")
	assert.Contains(t, prompt, "Ministry Score: 72/100")
	assert.Contains(t, prompt, "Recommendation Strength: Strong")
	assert.Contains(t, prompt, "- church_name: Vida Nueva")
	assert.NotContains(t, prompt, "555-01")
}

func TestClassifyPreliminaryFillsPendingDocuments(t *testing.T) {
	var prompt string
	gen := generatorFunc(func(_ context.Context, p string) (string, error) {
		prompt = p
		return `{"recommended_level":"Pregrado","recommended_programs":["Licenciatura en Teología"],"justification":"ok","confidence_score":6}`, nil
	})
	data := models.AggregatedApplicationData{
		Key:      "ana@example.com",
		Stage:    models.StagePreliminary,
		Official: models.CanonicalRecord{"program_interest": "Teología"},
		Missing:  []models.FormKind{models.FormKindMinistryExperience, models.FormKindPastoralRecommendation},
	}

	result, err := New(gen, 0, logger.NewNoOpLogger()).Classify(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, models.StagePreliminary, result.Stage)
	assert.Equal(t, []string{"Formulario de Experiencia Ministerial", "Formulario de Recomendación Pastoral"}, result.PendingDocuments)
	assert.Contains(t, prompt, "PRELIMINARY assessment")
	assert.Contains(t, prompt, "Program Interest: Teología")
	assert.Contains(t, prompt, "Education Level: No especificado")
}

func TestClassifyFallsBack(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
		code apperrors.ErrorCode
	}{
		{"disabled", nil, apperrors.ErrCodeClassifierFailed},
		{"generator error", generatorFunc(func(context.Context, string) (string, error) {
			return "", errors.New("quota exceeded")
		}), apperrors.ErrCodeClassifierFailed},
		{"not json", generatorFunc(func(context.Context, string) (string, error) {
			return "I recommend Pregrado", nil
		}), apperrors.ErrCodeClassifierFailed},
		{"unknown level", generatorFunc(func(context.Context, string) (string, error) {
			return `{"recommended_level":"Bachillerato","recommended_programs":["x"],"justification":"y","confidence_score":5}`, nil
		}), apperrors.ErrCodeClassifierFailed},
		{"confidence out of range", generatorFunc(func(context.Context, string) (string, error) {
			return `{"recommended_level":"Pregrado","recommended_programs":["x"],"justification":"y","confidence_score":42}`, nil
		}), apperrors.ErrCodeClassifierFailed},
		{"timeout", generatorFunc(func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}), apperrors.ErrCodeClassifierTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.gen, 20*time.Millisecond, logger.NewTestLogger(t))
			result, err := c.Classify(context.Background(), comprehensiveData())

			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
			assert.True(t, result.Fallback)
			assert.Equal(t, models.LevelBasicCertificate, result.Level)
			assert.Equal(t, []string{"Certificado en Estudios Bíblicos"}, result.Programs)
			assert.Equal(t, 1, result.Confidence)
			assert.Equal(t, models.StageComprehensive, result.Stage)
			assert.True(t, result.LowConfidence())
			assert.Contains(t, result.AdmissionsNotes, "contacte a la oficina de admisiones")
		})
	}
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("  {\"a\":1}  "))
}

func TestGatewayRetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/generate", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req gatewayRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, strings.HasPrefix(req.Prompt, "You are an academic advisor"))

		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"text": validOutput})
	}))
	defer srv.Close()

	c := New(NewGateway(srv.URL+"/", "key", 2, nil), 5*time.Second, logger.NewTestLogger(t))
	result, err := c.Classify(context.Background(), comprehensiveData())
	require.NoError(t, err)
	assert.Equal(t, models.LevelGraduate, result.Level)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGatewayExhaustsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewGateway(srv.URL, "", 2, nil).GenerateText(context.Background(), "prompt")
	require.ErrorIs(t, err, ErrGatewayFailed)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
