// internal/models/classification.go
package models

import "time"

type Stage string

const (
	StagePreliminary   Stage = "preliminary"
	StageComprehensive Stage = "comprehensive"
)

const (
	LevelBasicCertificate = "Certificación Básica"
	LevelUndergraduate    = "Pregrado"
	LevelGraduate         = "Postgrado"
	LevelDoctorate        = "Doctorado"
)

func AcademicLevels() []string {
	return []string{LevelBasicCertificate, LevelUndergraduate, LevelGraduate, LevelDoctorate}
}

// ClassificationResult is the latest recommendation stored on a record.
// A new result supersedes the previous one.
type ClassificationResult struct {
	Level               string    `json:"recommendedLevel"`
	Programs            []string  `json:"recommendedPrograms"`
	Justification       string    `json:"justification"`
	AdmissionsNotes     string    `json:"admissionsNotes,omitempty"`
	ReadinessAssessment string    `json:"readinessAssessment,omitempty"`
	PendingDocuments    []string  `json:"pendingDocuments,omitempty"`
	Confidence          int       `json:"confidenceScore"`
	Stage               Stage     `json:"stage"`
	Fallback            bool      `json:"fallback"`
	GeneratedAt         time.Time `json:"generatedAt"`
}

// LowConfidence marks results that admissions should review by hand.
func (c *ClassificationResult) LowConfidence() bool {
	return c.Confidence < 5
}
