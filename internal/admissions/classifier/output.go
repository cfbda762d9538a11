package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"admissions-tracker/internal/models"
)

var outputSchema = gojsonschema.NewGoLoader(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"recommended_level", "recommended_programs", "justification", "confidence_score"},
	"properties": map[string]interface{}{
		"recommended_level": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{
				models.LevelBasicCertificate,
				models.LevelUndergraduate,
				models.LevelGraduate,
				models.LevelDoctorate,
			},
		},
		"recommended_programs": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]interface{}{"type": "string", "minLength": 1},
		},
		"justification":        map[string]interface{}{"type": "string", "minLength": 1},
		"admissions_notes":     map[string]interface{}{"type": "string"},
		"readiness_assessment": map[string]interface{}{"type": "string"},
		"confidence_score":     map[string]interface{}{"type": "number", "minimum": 0, "maximum": 10},
		"pending_documents": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
	},
})

type modelOutput struct {
	Level               string   `json:"recommended_level"`
	Programs            []string `json:"recommended_programs"`
	Justification       string   `json:"justification"`
	AdmissionsNotes     string   `json:"admissions_notes"`
	ReadinessAssessment string   `json:"readiness_assessment"`
	Confidence          float64  `json:"confidence_score"`
	PendingDocuments    []string `json:"pending_documents"`
}

// stripFences removes a markdown code fence around the model's JSON.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// parseOutput validates raw model text against the output contract.
func parseOutput(raw string) (*modelOutput, error) {
	text := stripFences(raw)

	var doc interface{}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}

	result, err := gojsonschema.Validate(outputSchema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("response validation failed: %v", errs)
	}

	var out modelOutput
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func (o *modelOutput) toResult(stage models.Stage) models.ClassificationResult {
	return models.ClassificationResult{
		Level:               o.Level,
		Programs:            o.Programs,
		Justification:       strings.TrimSpace(o.Justification),
		AdmissionsNotes:     strings.TrimSpace(o.AdmissionsNotes),
		ReadinessAssessment: strings.TrimSpace(o.ReadinessAssessment),
		PendingDocuments:    o.PendingDocuments,
		Confidence:          int(math.Round(o.Confidence)),
		Stage:               stage,
	}
}
