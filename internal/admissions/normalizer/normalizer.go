package normalizer

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"admissions-tracker/internal/common/errors"
	"admissions-tracker/internal/common/validation"
	"admissions-tracker/internal/models"
)

// Canonical field names shared by every form.
const (
	FieldEmail        = "email"
	FieldFirstName    = "applicant_first_name"
	FieldLastName     = "applicant_last_name"
	FieldFullName     = "applicant_name"
	FieldSubmissionID = "submission_id"
	FieldSubmittedAt  = "submitted_at"

	FieldEducationLevel        = "education_level"
	FieldMinisterialExperience = "ministerial_experience"
	FieldBackground            = "background"

	FieldMinistryScore          = "ministry_score"
	FieldRecommendationStrength = "recommendation_strength"
	FieldRecommendationScore    = "recommendation_score"
	FieldRecommendationFlags    = "recommendation_flags"
)

// Normalizer maps raw form-host payloads to canonical records. It holds no
// mutable state and is safe for concurrent use.
type Normalizer struct {
	schemas map[models.FormID]FormSchema
}

func New() *Normalizer {
	return &Normalizer{schemas: DefaultSchemas()}
}

func NewWithSchemas(schemas map[models.FormID]FormSchema) *Normalizer {
	return &Normalizer{schemas: schemas}
}

func (n *Normalizer) Schema(formID models.FormID) (FormSchema, bool) {
	s, ok := n.schemas[formID]
	return s, ok
}

// Normalize applies the form's field table to raw. Unknown keys are ignored.
// Raw keys may be vendor ids or canonical names; vendor ids win.
func (n *Normalizer) Normalize(formID models.FormID, raw map[string]interface{}) (models.CanonicalRecord, error) {
	schema, ok := n.schemas[formID]
	if !ok {
		return nil, errors.NewUnknownFormError(string(formID))
	}

	rec := make(models.CanonicalRecord, len(schema.Fields)+8)
	for vendorID, canonical := range schema.Fields {
		if v, ok := raw[vendorID]; ok {
			if s := stringify(v); s != "" {
				rec[canonical] = s
				continue
			}
		}
		if _, taken := rec[canonical]; taken {
			continue
		}
		if v, ok := raw[canonical]; ok {
			rec[canonical] = stringify(v)
		}
	}

	if schema.EmailField != FieldEmail && rec[FieldEmail] == "" {
		rec[FieldEmail] = rec[schema.EmailField]
	}

	required := schema.Required
	vr := validation.RequireFields(rec, required)
	vr.CheckEmail(FieldEmail, rec[FieldEmail])
	if !vr.Valid {
		missing := vr.FieldsWithCode(validation.CodeRequiredFieldMissing)
		return nil, errors.NewNormalizationError(string(formID), missing, strings.Join(vr.GetErrorMessages(), "; "))
	}

	for _, canonical := range schema.Fields {
		if strings.TrimSpace(rec[canonical]) == "" {
			rec[canonical] = models.NotSpecified
		}
	}

	derive(formID, rec)
	return rec, nil
}

func derive(formID models.FormID, rec models.CanonicalRecord) {
	rec[FieldFullName] = strings.TrimSpace(rec.Get(FieldFirstName) + " " + rec.Get(FieldLastName))

	switch formID {
	case models.FormEstadosUnidos, models.FormLatinoamerica:
		rec[FieldEducationLevel] = rec.Display("study_level_selected")
		rec[FieldMinisterialExperience] = joinLabeled(rec,
			labeled{"Rol", "ministry_role"},
			labeled{"Años asistiendo", "years_attending"},
			labeled{"Iglesia", "church_name"},
		)
		rec[FieldBackground] = joinLabeled(rec,
			labeled{"Denominación", "denomination"},
			labeled{"Secundaria", "high_school_completed"},
		)

	case models.FormExperiencia:
		rec[FieldMinistryScore] = strconv.Itoa(MinistryScore(rec))

	case models.FormRecomendacion:
		s := RecommendationStrengthOf(rec)
		rec[FieldRecommendationStrength] = s.Strength
		rec[FieldRecommendationScore] = strconv.Itoa(s.Score)
		rec[FieldRecommendationFlags] = strings.Join(s.Flags, "; ")
	}
}

type labeled struct {
	label string
	field string
}

func joinLabeled(rec models.CanonicalRecord, parts ...labeled) string {
	var out []string
	for _, p := range parts {
		if v := rec.Get(p.field); v != "" {
			out = append(out, p.label+": "+v)
		}
	}
	if len(out) == 0 {
		return models.NotSpecified
	}
	return strings.Join(out, " | ")
}

// stringify renders a decoded JSON or form value as trimmed text.
// Checkbox groups arrive as arrays or maps and are joined in a stable order.
func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []string:
		return joinNonEmpty(t)
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, stringify(item))
		}
		return joinNonEmpty(parts)
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, stringify(t[k]))
		}
		return joinNonEmpty(parts)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func joinNonEmpty(parts []string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
