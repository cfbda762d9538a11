// internal/models/form.go
package models

import (
	"fmt"
	"strings"
)

// FormKind is a required slot in an applicant's form set.
type FormKind string

const (
	FormKindOfficialApplication    FormKind = "official_application"
	FormKindMinistryExperience     FormKind = "ministry_experience"
	FormKindPastoralRecommendation FormKind = "pastoral_recommendation"
)

func AllFormKinds() []FormKind {
	return []FormKind{
		FormKindOfficialApplication,
		FormKindMinistryExperience,
		FormKindPastoralRecommendation,
	}
}

func ParseFormKind(s string) (FormKind, error) {
	k := FormKind(strings.TrimSpace(strings.ToLower(s)))
	for _, known := range AllFormKinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown form kind %q", s)
}

var formKindLabels = map[FormKind]string{
	FormKindOfficialApplication:    "Solicitud Oficial de Admisión",
	FormKindMinistryExperience:     "Formulario de Experiencia Ministerial",
	FormKindPastoralRecommendation: "Formulario de Recomendación Pastoral",
}

// Label is the applicant-facing name used in emails and API responses.
func (k FormKind) Label() string {
	if l, ok := formKindLabels[k]; ok {
		return l
	}
	return string(k)
}

func Labels(kinds []FormKind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = k.Label()
	}
	return out
}

// FormID identifies a concrete form on the form host. Several FormIDs may
// fill the same FormKind slot.
type FormID string

const (
	FormEstadosUnidos FormID = "estados_unidos_mundo"
	FormLatinoamerica FormID = "latinoamerica"
	FormExperiencia   FormID = "experiencia_ministerial"
	FormRecomendacion FormID = "recomendacion_pastoral"
)

const (
	RegionDomestic      = "domestic"
	RegionInternational = "international"
)

type formInfo struct {
	kind   FormKind
	region string
}

var formIndex = map[FormID]formInfo{
	FormEstadosUnidos: {kind: FormKindOfficialApplication, region: RegionDomestic},
	FormLatinoamerica: {kind: FormKindOfficialApplication, region: RegionInternational},
	FormExperiencia:   {kind: FormKindMinistryExperience},
	FormRecomendacion: {kind: FormKindPastoralRecommendation},
}

func AllFormIDs() []FormID {
	return []FormID{FormEstadosUnidos, FormLatinoamerica, FormExperiencia, FormRecomendacion}
}

func ParseFormID(s string) (FormID, bool) {
	id := FormID(strings.TrimSpace(s))
	_, ok := formIndex[id]
	return id, ok
}

// Kind returns the slot this form fills.
func (f FormID) Kind() (FormKind, bool) {
	info, ok := formIndex[f]
	return info.kind, ok
}

// Region is set only for the official application variants.
func (f FormID) Region() string {
	return formIndex[f].region
}
