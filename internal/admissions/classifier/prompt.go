package classifier

import (
	"fmt"
	"sort"
	"strings"

	"admissions-tracker/internal/models"
)

var levelDescriptions = []struct{ level, description string }{
	{models.LevelBasicCertificate, "Minimal formal education or new to theological studies"},
	{models.LevelUndergraduate, "Bachelor's level (requires secondary education)"},
	{models.LevelGraduate, "Master's level (requires undergraduate degree)"},
	{models.LevelDoctorate, "Doctoral programs (requires master's degree)"},
}

// BuildPrompt renders the instruction text for data. The stage on data
// selects the preliminary or comprehensive variant.
func BuildPrompt(data models.AggregatedApplicationData) string {
	var parts []string

	if data.Stage == models.StageComprehensive {
		parts = append(parts, "You are an academic advisor for Universidad Cristiana de Logos (UCL). Perform a COMPREHENSIVE evaluation based on ALL submitted forms.")
	} else {
		parts = append(parts, "You are an academic advisor for Universidad Cristiana de Logos (UCL). Evaluate and recommend the appropriate academic level and program.")
	}

	parts = append(parts, "\nACADEMIC LEVELS:")
	for _, l := range levelDescriptions {
		parts = append(parts, fmt.Sprintf("- %s - %s", l.level, l.description))
	}

	parts = append(parts, "\nAVAILABLE PROGRAMS:")
	for _, level := range models.AcademicLevels() {
		parts = append(parts, strings.ToUpper(level)+":")
		for _, p := range models.ProgramsByLevel[level] {
			parts = append(parts, "- "+p)
		}
	}

	if data.Stage == models.StageComprehensive {
		parts = append(parts, comprehensiveSection(data)...)
	} else {
		parts = append(parts, preliminarySection(data)...)
	}
	return strings.Join(parts, "\n")
}

func preliminarySection(data models.AggregatedApplicationData) []string {
	rec := data.Primary()
	parts := []string{
		"\nSTUDENT DATA (PRELIMINARY - from one form only):",
		"Name: " + data.ApplicantName,
		"Program Interest: " + rec.Display("program_interest"),
		"Education Level: " + rec.Display("education_level"),
		"Study Level Selected: " + rec.Display("study_level_selected"),
		"Ministerial Experience: " + rec.Display("ministerial_experience"),
		"Background: " + rec.Display("background"),
	}
	missing := strings.Join(models.Labels(data.Missing), ", ")
	parts = append(parts,
		"\nNOTE: This is a PRELIMINARY assessment based on ONE form only.",
		"The applicant still needs to submit: "+missing+".",
		"\nReturn ONLY valid JSON without any markdown formatting:",
		`{
  "recommended_level": "level here",
  "recommended_programs": ["program 1", "program 2"],
  "justification": "explanation here",
  "admissions_notes": "PRELIMINARY recommendation pending the remaining forms.",
  "confidence_score": 6,
  "pending_documents": ["form name"]
}`)
	return parts
}

func comprehensiveSection(data models.AggregatedApplicationData) []string {
	off := data.Official
	parts := []string{
		"\nCOMPREHENSIVE STUDENT DATA (from ALL forms):",
		"\nFROM " + strings.ToUpper(models.FormKindOfficialApplication.Label()) + ":",
		"Name: " + data.ApplicantName,
		"Email: " + data.Key.String(),
		"Program Interest: " + off.Display("program_interest"),
		"Self-Reported Education: " + off.Display("education_level"),
		"Study Level Selected: " + off.Display("study_level_selected"),
		"Basic Ministry Info: " + off.Display("ministerial_experience"),
		"Background: " + off.Display("background"),
	}

	if data.Ministry != nil {
		parts = append(parts, "\nFROM "+strings.ToUpper(models.FormKindMinistryExperience.Label())+":")
		parts = append(parts, "Ministry Score: "+data.Ministry.Display("ministry_score")+"/100")
		parts = append(parts, fieldLines(data.Ministry)...)
	}
	if data.Recommendation != nil {
		parts = append(parts, "\nFROM "+strings.ToUpper(models.FormKindPastoralRecommendation.Label())+":")
		parts = append(parts,
			"Recommendation Strength: "+data.Recommendation.Display("recommendation_strength"),
			"Recommendation Score: "+data.Recommendation.Display("recommendation_score")+"/100",
			"Flags: "+data.Recommendation.Display("recommendation_flags"),
		)
		parts = append(parts, fieldLines(data.Recommendation)...)
	}

	parts = append(parts,
		"\nAPPLICATION STATUS:",
		fmt.Sprintf("- Forms Submitted: %d/%d", len(data.Submitted), len(data.Submitted)+len(data.Missing)),
		"- Status: "+string(data.Status),
		"\nIMPORTANT: This is a COMPREHENSIVE evaluation with ALL required forms submitted.",
		"Consider:",
		"1. Self-reported education vs documented education",
		"2. Depth of ministry experience (from detailed form)",
		"3. Pastoral recommendation strength",
		"4. Consistency across all forms",
		"5. Overall readiness for theological studies",
		"\nProvide a FINAL classification recommendation that an admissions committee can act on.",
		"\nReturn ONLY valid JSON without any markdown formatting:",
		`{
  "recommended_level": "level here",
  "recommended_programs": ["program 1", "program 2"],
  "justification": "comprehensive explanation considering ALL forms",
  "admissions_notes": "Final recommendation for admissions committee. All required forms submitted.",
  "confidence_score": 9,
  "readiness_assessment": "detailed assessment of readiness for theological studies"
}`)
	return parts
}

// fieldLines lists the answered fields of rec in a stable order. Contact
// details are omitted.
func fieldLines(rec models.CanonicalRecord) []string {
	keys := make([]string, 0, len(rec))
	for k, v := range rec {
		if v == "" || v == models.NotSpecified || omitFromPrompt(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = fmt.Sprintf("- %s: %s", k, rec[k])
	}
	return lines
}

func omitFromPrompt(field string) bool {
	switch {
	case strings.Contains(field, "phone"),
		strings.Contains(field, "whatsapp"),
		strings.Contains(field, "email"),
		strings.Contains(field, "address"),
		field == "submission_id",
		field == "submitted_at":
		return true
	}
	return false
}
