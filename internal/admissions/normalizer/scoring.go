package normalizer

import (
	"fmt"
	"strings"
	"unicode"

	"admissions-tracker/internal/models"
)

// MinistryScore rates ministry experience on a 0-100 scale.
func MinistryScore(rec models.CanonicalRecord) int {
	score := 0

	score += min(leadingInt(rec.Get("years_attending_church"))*2, 20)
	score += min(leadingInt(rec.Get("years_pastoring"))*4, 20)

	position := strings.ToLower(rec.Get("ministry_position"))
	switch {
	case strings.Contains(position, "pastor"):
		score += 15
	case strings.Contains(position, "leader"), strings.Contains(position, "líder"), strings.Contains(position, "lider"):
		score += 12
	case strings.Contains(position, "minister"), strings.Contains(position, "ministro"):
		score += 10
	case position != "":
		score += 8
	}

	score += lengthBonus(rec.Get("ministries_involved"), 15, 10)
	score += lengthBonus(rec.Get("biblical_training"), 10, 5)
	score += lengthBonus(rec.Get("ministry_achievements"), 10, 5)

	if rec.Get("profession_specific") != "" {
		score += 5
	}
	if rec.Get("years_experience") != "" {
		score += 5
	}

	return min(score, 100)
}

func lengthBonus(text string, long, medium int) int {
	switch n := len([]rune(text)); {
	case n > 50:
		return long
	case n > 20:
		return medium
	default:
		return 0
	}
}

// leadingInt reads the number at the start of answers like "12 años".
func leadingInt(s string) int {
	n := 0
	for _, r := range strings.TrimSpace(s) {
		if !unicode.IsDigit(r) {
			break
		}
		n = n*10 + int(r-'0')
		if n > 1000 {
			return 1000
		}
	}
	return n
}

const (
	StrengthStrong   = "Strong"
	StrengthModerate = "Moderate"
	StrengthWeak     = "Weak"
	StrengthNegative = "Negative"
)

type RecommendationStrength struct {
	Strength string
	Score    int
	Flags    []string
}

var keyRatings = []string{
	"rating_christian_commitment", "rating_integrity", "rating_leadership",
	"rating_morality", "rating_honesty", "rating_cooperation", "rating_family",
	"rating_emotional_stability", "rating_problem_solver",
}

// RecommendationStrengthOf scores a pastoral recommendation starting from a
// neutral 50 and collects the concerns admissions should see.
func RecommendationStrengthOf(rec models.CanonicalRecord) RecommendationStrength {
	score := 50
	var flags []string

	recommend := strings.ToLower(rec.Get("recommend_for_program"))
	switch {
	case hasWord(recommend, "no"):
		score -= 40
		flags = append(flags, "Pastor does NOT recommend applicant")
	case strings.Contains(recommend, "reservaciones"), strings.Contains(recommend, "reservations"):
		score -= 20
		flags = append(flags, "Pastor recommends WITH RESERVATIONS")
	case hasWord(recommend, "sí"), hasWord(recommend, "si"), hasWord(recommend, "yes"):
		score += 20
	}

	if isYes(rec.Get("smokes")) {
		score -= 10
		flags = append(flags, "Applicant smokes")
	}
	if isYes(rec.Get("drinks")) {
		score -= 10
		flags = append(flags, "Applicant drinks alcohol")
	}
	if isYes(rec.Get("uses_substances")) {
		score -= 30
		flags = append(flags, "Applicant uses illegal substances")
	}

	if hasWord(strings.ToLower(rec.Get("pays_debts")), "no") {
		score -= 15
		flags = append(flags, "Does not pay debts responsibly")
	}

	low := 0
	for _, field := range keyRatings {
		rating := strings.ToLower(rec.Get(field))
		switch {
		case strings.Contains(rating, "excepcional"), strings.Contains(rating, "exceptional"):
			score += 2
		case strings.Contains(rating, "bueno"), strings.Contains(rating, "good"):
			score++
		case strings.Contains(rating, "bajo"), strings.Contains(rating, "low"):
			score -= 2
			low++
		}
	}
	if low > 3 {
		flags = append(flags, fmt.Sprintf("Multiple low ratings (%d areas)", low))
	}

	authority := strings.ToLower(rec.Get("attitude_toward_authority"))
	switch {
	case strings.Contains(authority, "problemática"), strings.Contains(authority, "problematica"), strings.Contains(authority, "problematic"):
		score -= 20
		flags = append(flags, "Problematic attitude toward authority")
	case strings.Contains(authority, "cuestionable"), strings.Contains(authority, "questionable"):
		score -= 10
		flags = append(flags, "Questionable attitude toward authority")
	}

	score = max(0, min(score, 100))

	strength := StrengthNegative
	switch {
	case score >= 70:
		strength = StrengthStrong
	case score >= 50:
		strength = StrengthModerate
	case score >= 30:
		strength = StrengthWeak
	}

	return RecommendationStrength{Strength: strength, Score: score, Flags: flags}
}

func isYes(answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	return a == "si" || a == "sí" || a == "yes"
}

// hasWord matches whole words so "no" does not hit "ninguno" or "bueno".
func hasWord(text, word string) bool {
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if w == word {
			return true
		}
	}
	return false
}
