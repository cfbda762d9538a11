package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "admissions-tracker/internal/common/errors"
	"admissions-tracker/internal/models"
)

func estadosUnidosPayload() map[string]interface{} {
	return map[string]interface{}{
		"element_1":    " Ana ",
		"element_2":    "Ruiz",
		"element_4":    "Pregrado",
		"element_5":    "Teología",
		"element_14":   " Ana.Ruiz@Example.com ",
		"element_32":   "Líder de jóvenes",
		"element_35":   float64(6),
		"element_34":   "Iglesia Central",
		"element_38":   "Bautista",
		"entry_no":     float64(42),
		"unknown_junk": "ignored",
	}
}

func TestNormalizeOfficialApplication(t *testing.T) {
	n := New()

	rec, err := n.Normalize(models.FormEstadosUnidos, estadosUnidosPayload())
	require.NoError(t, err)

	assert.Equal(t, "Ana", rec[FieldFirstName])
	assert.Equal(t, "Ana Ruiz", rec[FieldFullName])
	assert.Equal(t, "Ana.Ruiz@Example.com", rec[FieldEmail])
	assert.Equal(t, "42", rec[FieldSubmissionID])
	assert.Equal(t, "Pregrado", rec[FieldEducationLevel])
	assert.Equal(t, "Rol: Líder de jóvenes | Años asistiendo: 6 | Iglesia: Iglesia Central", rec[FieldMinisterialExperience])
	assert.Equal(t, "Denominación: Bautista", rec[FieldBackground])
	assert.Equal(t, models.NotSpecified, rec["gender"])
	_, hasJunk := rec["unknown_junk"]
	assert.False(t, hasJunk)
}

func TestNormalizeDerivedDefaults(t *testing.T) {
	rec, err := New().Normalize(models.FormEstadosUnidos, map[string]interface{}{
		"element_1":  "Ana",
		"element_2":  "Ruiz",
		"element_5":  "Teología",
		"element_14": "ana@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, models.NotSpecified, rec[FieldEducationLevel])
	assert.Equal(t, models.NotSpecified, rec[FieldMinisterialExperience])
	assert.Equal(t, models.NotSpecified, rec[FieldBackground])
}

func TestNormalizeLatinoamericaRequiresCountry(t *testing.T) {
	_, err := New().Normalize(models.FormLatinoamerica, map[string]interface{}{
		"element_2":  "Ana",
		"element_3":  "Ruiz",
		"element_7":  "Teología",
		"element_16": "ana@example.com",
		"element_39": "Pentecostal",
	})
	require.Error(t, err)

	stdErr := apperrors.AsStandard(err)
	assert.Equal(t, apperrors.ErrCodeNormalizationFailed, stdErr.Code)
	assert.Equal(t, []string{"country"}, stdErr.Metadata["missingFields"])
}

func TestNormalizeMissingEmail(t *testing.T) {
	payload := estadosUnidosPayload()
	delete(payload, "element_14")

	_, err := New().Normalize(models.FormEstadosUnidos, payload)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNormalizationFailed))
	assert.Equal(t, []string{"email"}, apperrors.AsStandard(err).Metadata["missingFields"])
}

func TestNormalizeInvalidEmail(t *testing.T) {
	payload := estadosUnidosPayload()
	payload["element_14"] = "not an email"

	_, err := New().Normalize(models.FormEstadosUnidos, payload)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNormalizationFailed))
	assert.Nil(t, apperrors.AsStandard(err).Metadata["missingFields"])
}

func TestNormalizeUnknownForm(t *testing.T) {
	_, err := New().Normalize("machform", map[string]interface{}{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnknownForm))
}

func TestNormalizeAcceptsCanonicalNames(t *testing.T) {
	rec, err := New().Normalize(models.FormEstadosUnidos, map[string]interface{}{
		"applicant_first_name": "Ana",
		"applicant_last_name":  "Ruiz",
		"program_interest":     "Teología",
		"email":                "ana@example.com",
		"element_1":            "Anita",
	})
	require.NoError(t, err)
	assert.Equal(t, "Anita", rec[FieldFirstName])
	assert.Equal(t, "ana@example.com", rec[FieldEmail])
}

func TestNormalizeRecommendationCopiesApplicantEmail(t *testing.T) {
	rec, err := New().Normalize(models.FormRecomendacion, map[string]interface{}{
		"element_1":  "Ana",
		"element_2":  "Ruiz",
		"element_9":  "ANA@example.com ",
		"element_18": "Pastor Luis",
		"element_25": "luis@iglesia.org",
		"element_26": "+1 555 123 4567",
		"element_28": "5 años",
		"element_66": "Sí",
	})
	require.NoError(t, err)
	assert.Equal(t, "ANA@example.com", rec[FieldEmail])
	assert.Equal(t, StrengthStrong, rec[FieldRecommendationStrength])
	assert.Equal(t, "70", rec[FieldRecommendationScore])
}

func TestNormalizeMinistryExperience(t *testing.T) {
	rec, err := New().Normalize(models.FormExperiencia, map[string]interface{}{
		"element_1":  "Ana",
		"element_2":  "Ruiz",
		"element_9":  "ana@example.com",
		"element_12": "+1 555 000 1111",
		"element_17": "Iglesia Central",
		"element_18": "Pastor Luis",
		"element_26": "12 años",
		"element_29": "Bautista",
		"element_31": "Pastor asociado",
		"element_45": []interface{}{"Educación", "", "Salud"},
		"element_46": "Maestra",
	})
	require.NoError(t, err)
	assert.Equal(t, "Educación, Salud", rec["professional_area"])
	// 20 (years attending) + 15 (pastor) + 5 (profession)
	assert.Equal(t, "40", rec[FieldMinistryScore])
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", stringify(nil))
	assert.Equal(t, "3", stringify(float64(3)))
	assert.Equal(t, "3.5", stringify(3.5))
	assert.Equal(t, "true", stringify(true))
	assert.Equal(t, "a, b", stringify([]string{" a ", "b"}))
	assert.Equal(t, "x, y", stringify(map[string]interface{}{"2": "y", "1": "x"}))
	assert.Equal(t, "7", stringify(7))
}
