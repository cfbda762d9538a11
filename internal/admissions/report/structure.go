package report

import (
	"fmt"
	"time"

	"admissions-tracker/internal/models"
)

type Pair struct {
	Label string
	Value string
}

type ProgramSection struct {
	Name   string
	Detail models.ProgramDetail
}

// Report is the renderer-independent content of a classification report.
type Report struct {
	Title         string
	Subtitle      string
	GeneratedDate string

	Applicant []Pair

	Level         string
	Programs      []string
	Confidence    string
	LowConfidence bool
	Stage         models.Stage
	Fallback      bool

	Justification         string
	MinisterialExperience string
	Readiness             string
	AdmissionsNotes       string
	PendingDocuments      []string
	Details               []ProgramSection

	FooterText string
	Disclaimer string
}

var monthsES = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

func spanishDate(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d", t.Day(), monthsES[t.Month()-1], t.Year())
}

// Build assembles the report for an applicant's record and classification.
func Build(key models.ApplicantKey, name string, rec models.CanonicalRecord, result models.ClassificationResult, now time.Time) Report {
	if name == "" {
		name = rec.Display("applicant_name")
	}
	phone := rec.Get("phone_mobile")
	if phone == "" {
		phone = rec.Get("phone")
	}
	if phone == "" {
		phone = "No proporcionado"
	}

	r := Report{
		Title:         "UNIVERSIDAD CRISTIANA DE LOGOS",
		Subtitle:      "Reporte de Clasificación Académica",
		GeneratedDate: spanishDate(now),
		Applicant: []Pair{
			{"Nombre Completo", name},
			{"Correo Electrónico", key.String()},
			{"Teléfono", phone},
			{"Programa de Interés", rec.Display("program_interest")},
			{"Nivel Educativo Actual", rec.Display("education_level")},
		},
		Level:                 result.Level,
		Programs:              result.Programs,
		Confidence:            fmt.Sprintf("%d/10", result.Confidence),
		LowConfidence:         result.LowConfidence(),
		Stage:                 result.Stage,
		Fallback:              result.Fallback,
		Justification:         result.Justification,
		MinisterialExperience: rec.Display("ministerial_experience"),
		Readiness:             result.ReadinessAssessment,
		AdmissionsNotes:       result.AdmissionsNotes,
		PendingDocuments:      result.PendingDocuments,
		FooterText:            "Documento generado automáticamente por el Sistema de Clasificación Académica de UCL.",
		Disclaimer:            "La recomendación es una sugerencia basada en análisis automatizado. La decisión final corresponde al equipo de admisiones.",
	}
	for _, p := range result.Programs {
		if d, ok := models.ProgramDetails[p]; ok {
			r.Details = append(r.Details, ProgramSection{Name: p, Detail: d})
		}
	}
	return r
}
