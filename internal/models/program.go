// internal/models/program.go
package models

// ProgramsByLevel is the catalogue the classifier may recommend from.
var ProgramsByLevel = map[string][]string{
	LevelBasicCertificate: {
		"Certificado en Estudios Bíblicos",
		"Certificado en Ministerio Cristiano",
	},
	LevelUndergraduate: {
		"Licenciatura en Teología",
		"Licenciatura en Ministerio Pastoral",
		"Licenciatura en Consejería Cristiana",
		"Licenciatura en Educación Cristiana",
		"Licenciatura en Liderazgo y Administración Ministerial",
	},
	LevelGraduate: {
		"Maestría en Divinidad",
		"Maestría en Teología",
		"Maestría en Liderazgo Ministerial",
		"Maestría en Consejería Pastoral",
	},
	LevelDoctorate: {
		"Doctorado en Ministerio (D.Min)",
		"Doctorado en Teología (Th.D)",
	},
}

type ProgramDetail struct {
	Duration      string   `json:"duration"`
	Credits       string   `json:"credits"`
	Format        string   `json:"format"`
	Focus         string   `json:"focus"`
	Prerequisites string   `json:"prerequisites"`
	BestFor       []string `json:"bestFor"`
}

// ProgramDetails covers the programs admissions has published details for.
// Not every catalogue entry is present.
var ProgramDetails = map[string]ProgramDetail{
	"Certificado en Estudios Bíblicos": {
		Duration:      "12 meses",
		Credits:       "36 créditos",
		Format:        "Online / Presencial",
		Focus:         "Fundamentación bíblica básica",
		Prerequisites: "Ninguno",
		BestFor:       []string{"Nuevos creyentes", "Liderazgo básico"},
	},
	"Licenciatura en Teología": {
		Duration:      "4 años",
		Credits:       "128 créditos",
		Format:        "Online / Híbrido",
		Focus:         "Investigación académica y doctrina",
		Prerequisites: "High School o experiencia equivalente",
		BestFor:       []string{"Docentes", "Teólogos"},
	},
	"Licenciatura en Ministerio Pastoral": {
		Duration:      "4 años",
		Credits:       "128 créditos",
		Format:        "Online / Práctico",
		Focus:         "Gestión de iglesia y cuidado pastoral",
		Prerequisites: "High School o experiencia equivalente",
		BestFor:       []string{"Pastores", "Líderes de iglesia"},
	},
	"Maestría en Divinidad": {
		Duration:      "3 años",
		Credits:       "90 créditos",
		Format:        "Online / Intensivo",
		Focus:         "Preparación integral para el ministerio",
		Prerequisites: "Licenciatura Ministerial",
		BestFor:       []string{"Pastores de carrera", "Capellanes"},
	},
	"Maestría en Liderazgo Ministerial": {
		Duration:      "2 años",
		Credits:       "48 créditos",
		Format:        "Online",
		Focus:         "Administración y liderazgo estratégico",
		Prerequisites: "Licenciatura Ministerial",
		BestFor:       []string{"Administradores", "Líderes denominacionales"},
	},
	"Doctorado en Ministerio (D.Min)": {
		Duration:      "3-4 años",
		Credits:       "45 créditos",
		Format:        "Investigación / Disertación",
		Focus:         "Práctica ministerial avanzada",
		Prerequisites: "Maestría Ministerial",
		BestFor:       []string{"Líderes experimentados", "Especialistas"},
	},
}
