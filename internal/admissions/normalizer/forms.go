package normalizer

import "admissions-tracker/internal/models"

// Vendor field ids per form, as published by the form host.

var estadosUnidosFields = map[string]string{
	"element_1_1":  "applicant_title",
	"element_1_2":  "applicant_name_prefix",
	"element_1":    "applicant_first_name",
	"element_2":    "applicant_last_name",
	"element_3":    "gender",
	"element_4":    "study_level_selected",
	"element_5":    "program_interest",
	"element_6":    "street_address",
	"element_7":    "city",
	"element_8":    "state",
	"element_9":    "postal_code",
	"element_10":   "country",
	"element_11":   "phone_home",
	"element_12":   "phone_work",
	"element_13":   "phone_mobile",
	"element_14":   "email",
	"element_15":   "email_confirm",
	"element_16":   "email_secondary",
	"element_17":   "website",
	"element_18":   "whatsapp",
	"element_19":   "skype",
	"element_20":   "facebook",
	"element_21":   "instagram",
	"element_22":   "linkedin",
	"element_23":   "language_preferred",
	"element_24":   "date_of_birth",
	"element_25":   "state_of_birth",
	"element_26":   "birth_country",
	"element_27":   "marital_status",
	"element_28":   "citizenship_country",
	"element_29":   "emergency_contact",
	"element_30":   "emergency_relationship",
	"element_31":   "emergency_phone",
	"element_32":   "ministry_role",
	"element_33":   "ordination_year",
	"element_34":   "church_name",
	"element_35":   "years_attending",
	"element_36":   "years_pastoring",
	"element_37":   "church_attendance",
	"element_38":   "denomination",
	"element_39":   "ministry_summary",
	"element_40":   "high_school_completed",
	"element_41":   "high_school_name",
	"element_42":   "high_school_city",
	"element_43":   "high_school_state",
	"element_44":   "high_school_country",
	"element_45":   "high_school_grad_year",
	"element_70":   "doc_high_school",
	"element_71":   "doc_goals",
	"element_72":   "doc_bachelor",
	"element_73":   "doc_associate",
	"element_74":   "doc_postgrad",
	"element_75":   "doc_transcripts",
	"entry_no":     "submission_id",
	"date_created": "submitted_at",
}

var latinoamericaFields = map[string]string{
	"element_1":    "applicant_title",
	"element_2":    "applicant_first_name",
	"element_3":    "applicant_last_name",
	"element_4":    "gender",
	"element_5":    "language_preferred",
	"element_6":    "study_level_selected",
	"element_7":    "program_interest",
	"element_8":    "street_address",
	"element_9":    "city",
	"element_10":   "state",
	"element_11":   "postal_code",
	"element_12":   "country",
	"element_13":   "phone_home",
	"element_14":   "phone_work",
	"element_15":   "phone_mobile",
	"element_16":   "email",
	"element_17":   "email_confirm",
	"element_18":   "email_secondary",
	"element_19":   "website",
	"element_20":   "whatsapp",
	"element_21":   "skype",
	"element_22":   "facebook",
	"element_23":   "instagram",
	"element_24":   "linkedin",
	"element_25":   "date_of_birth",
	"element_26":   "state_of_birth",
	"element_27":   "birth_country",
	"element_28":   "marital_status",
	"element_29":   "citizenship_country",
	"element_30":   "emergency_contact",
	"element_31":   "emergency_relationship",
	"element_32":   "emergency_phone",
	"element_33":   "ministry_role",
	"element_34":   "ordination_year",
	"element_35":   "church_name",
	"element_36":   "years_attending",
	"element_37":   "years_pastoring",
	"element_38":   "church_attendance",
	"element_39":   "denomination",
	"element_40":   "ministry_summary",
	"element_41":   "high_school_completed",
	"element_42":   "high_school_name",
	"element_43":   "high_school_city",
	"element_44":   "high_school_state",
	"element_45":   "high_school_country",
	"element_46":   "high_school_grad_year",
	"element_47":   "ged_state",
	"element_48":   "ged_type",
	"element_49":   "ged_date",
	"element_50":   "associate_degree",
	"element_51":   "bachelor_degree",
	"element_52":   "master_degree",
	"element_53":   "doctoral_degree",
	"element_54":   "other_degree",
	"entry_no":     "submission_id",
	"date_created": "submitted_at",
}

var experienciaFields = map[string]string{
	"element_1":    "applicant_first_name",
	"element_2":    "applicant_last_name",
	"element_3":    "address_line1",
	"element_4":    "address_line2",
	"element_5":    "city",
	"element_6":    "state",
	"element_7":    "postal_code",
	"element_8":    "country",
	"element_9":    "email",
	"element_10":   "email_confirm",
	"element_11":   "phone",
	"element_12":   "whatsapp",
	"element_13":   "facebook",
	"element_14":   "instagram",
	"element_15":   "linkedin",
	"element_16":   "skype",
	"element_17":   "church_name",
	"element_18":   "pastor_name",
	"element_19":   "church_address_line1",
	"element_20":   "church_address_line2",
	"element_21":   "church_city",
	"element_22":   "church_state",
	"element_23":   "church_postal_code",
	"element_24":   "church_country",
	"element_25":   "church_phone",
	"element_26":   "years_attending_church",
	"element_27":   "years_pastoring",
	"element_28":   "weekly_attendance_freq",
	"element_29":   "denomination",
	"element_30":   "financial_support",
	"element_31":   "ministry_position",
	"element_32":   "affiliation_group",
	"element_33":   "ministries_involved",
	"element_34":   "biblical_training",
	"element_35":   "seminars_workshops",
	"element_36":   "church_tasks",
	"element_37":   "ministry_achievements",
	"element_38":   "important_seminars",
	"element_39":   "devotional_life",
	"element_40":   "ministerial_submission",
	"element_41":   "influential_ministry",
	"element_42":   "reference_ministries",
	"element_43":   "best_friends",
	"element_44":   "testimony_summary",
	"element_45":   "professional_area",
	"element_46":   "profession_specific",
	"element_47":   "years_experience",
	"element_48":   "personal_skills",
	"element_49":   "software_tools",
	"element_50":   "documents_upload",
	"element_51":   "documents_list",
	"entry_no":     "submission_id",
	"date_created": "submitted_at",
}

var recomendacionFields = map[string]string{
	"element_1":    "applicant_first_name",
	"element_2":    "applicant_last_name",
	"element_3":    "applicant_birth_date",
	"element_4":    "applicant_address_line2",
	"element_5":    "applicant_city",
	"element_6":    "applicant_state",
	"element_7":    "applicant_postal_code",
	"element_8":    "applicant_country",
	"element_9":    "applicant_email",
	"element_10":   "applicant_email_confirm",
	"element_11":   "applicant_phone_mobile",
	"element_12":   "applicant_phone_alt",
	"element_13":   "applicant_whatsapp",
	"element_14":   "applicant_skype",
	"element_15":   "applicant_facebook",
	"element_16":   "applicant_instagram",
	"element_17":   "applicant_linkedin",
	"element_18":   "pastor_name",
	"element_19":   "church_name",
	"element_20":   "denomination",
	"element_21":   "church_address",
	"element_22":   "church_city",
	"element_23":   "church_state",
	"element_24":   "church_postal_code",
	"element_25":   "pastor_email",
	"element_26":   "pastor_phone",
	"element_27":   "recommendation_date",
	"element_28":   "time_known_applicant",
	"element_29":   "how_well_known",
	"element_30":   "professed_salvation",
	"element_31":   "evidence_of_faith",
	"element_32":   "church_member",
	"element_33":   "participation_level",
	"element_34":   "attitude_terms",
	"element_35":   "church_involvement",
	"element_36":   "smokes",
	"element_37":   "drinks",
	"element_38":   "uses_substances",
	"element_39":   "negative_comments",
	"element_40":   "pays_debts",
	"element_41":   "rating_christian_commitment",
	"element_42":   "rating_integrity",
	"element_43":   "rating_leadership",
	"element_44":   "rating_morality",
	"element_45":   "rating_speaking",
	"element_46":   "rating_honesty",
	"element_47":   "rating_cooperation",
	"element_48":   "rating_appearance",
	"element_49":   "rating_confidence",
	"element_50":   "rating_family",
	"element_51":   "rating_achievements",
	"element_52":   "rating_physical_health",
	"element_53":   "rating_consistency",
	"element_54":   "rating_resistance_change",
	"element_55":   "rating_team_worker",
	"element_56":   "rating_consideration",
	"element_57":   "rating_shows_love",
	"element_58":   "rating_persistence",
	"element_59":   "rating_mental_ability",
	"element_60":   "rating_emotional_stability",
	"element_61":   "rating_initiative",
	"element_62":   "rating_problem_solver",
	"element_63":   "rating_innovative",
	"element_64":   "rating_multitasker",
	"element_65":   "additional_info",
	"element_66":   "recommend_for_program",
	"element_67":   "recommendation_comments",
	"element_68":   "attitude_toward_authority",
	"element_69":   "authority_comments",
	"entry_no":     "submission_id",
	"date_created": "submitted_at",
}

// FormSchema describes how one form maps to a canonical record.
type FormSchema struct {
	ID       models.FormID
	Name     string
	Fields   map[string]string
	Required []string
	// EmailField holds the applicant email; it is copied to "email"
	// when named differently.
	EmailField string
}

// DefaultSchemas returns the schemas for every known form.
func DefaultSchemas() map[models.FormID]FormSchema {
	return map[models.FormID]FormSchema{
		models.FormEstadosUnidos: {
			ID:         models.FormEstadosUnidos,
			Name:       "Solicitud de Admisión (Estados Unidos y Mundo)",
			Fields:     estadosUnidosFields,
			Required:   []string{"applicant_first_name", "applicant_last_name", "email", "program_interest"},
			EmailField: FieldEmail,
		},
		models.FormLatinoamerica: {
			ID:         models.FormLatinoamerica,
			Name:       "Solicitud de Admisión (Latinoamérica)",
			Fields:     latinoamericaFields,
			Required:   []string{"applicant_first_name", "applicant_last_name", "email", "country", "denomination", "program_interest"},
			EmailField: FieldEmail,
		},
		models.FormExperiencia: {
			ID:     models.FormExperiencia,
			Name:   "Experiencia Ministerial",
			Fields: experienciaFields,
			Required: []string{
				"applicant_first_name", "applicant_last_name", "email", "whatsapp",
				"church_name", "pastor_name", "years_attending_church", "denomination",
				"ministry_position", "professional_area", "profession_specific",
			},
			EmailField: FieldEmail,
		},
		models.FormRecomendacion: {
			ID:     models.FormRecomendacion,
			Name:   "Recomendación Pastoral",
			Fields: recomendacionFields,
			Required: []string{
				"applicant_first_name", "applicant_last_name", "applicant_email",
				"pastor_name", "pastor_email", "pastor_phone",
				"time_known_applicant", "recommend_for_program",
			},
			EmailField: "applicant_email",
		},
	}
}
