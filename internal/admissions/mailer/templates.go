package mailer

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"admissions-tracker/internal/models"
)

type Kind string

const (
	KindAcknowledgment      Kind = "acknowledgment"
	KindDuplicateWarning    Kind = "duplicate_warning"
	KindFinalRecommendation Kind = "final_recommendation"
)

const (
	rawSuffix                = "Html"
	signature                = "Oficina de Admisiones<br>Universidad Cristiana de Logos"
	defaultApplicantGreeting = "Estimado(a) solicitante"
)

// Payload carries the values a template may reference.
type Payload struct {
	ApplicantName  string
	ApplicantEmail string
	FormLabel      string
	Progress       string
	MissingForms   []string
	Classification *models.ClassificationResult
	Attachment     *models.DocumentHandle
}

type emailTemplate struct {
	Subject string
	Body    string
}

// Placeholders are {{key}} or {{a.b}}. Keys ending in "Html" are inserted
// without escaping and must be built from escaped values.
var templates = map[Kind]emailTemplate{
	KindAcknowledgment: {
		Subject: "Hemos recibido su {{form}} ({{progress}})",
		Body: `<html><body style="font-family: Arial, sans-serif;">
<p>{{greeting}},</p>
<p>Hemos recibido su <strong>{{form}}</strong>. Lleva <strong>{{progress}}</strong> formularios requeridos.</p>
{{missingHtml}}{{preliminaryHtml}}<p>Gracias por su interés en la Universidad Cristiana de Logos.</p>
<p>` + signature + `</p>
</body></html>`,
	},
	KindDuplicateWarning: {
		Subject: "Formulario ya recibido: {{form}}",
		Body: `<html><body style="font-family: Arial, sans-serif;">
<p>{{greeting}},</p>
<p>Ya habíamos recibido su <strong>{{form}}</strong>. Este nuevo envío no reemplaza al anterior y no es necesario volver a enviarlo.</p>
<p>Si necesita corregir información, por favor contacte a la oficina de admisiones.</p>
<p>` + signature + `</p>
</body></html>`,
	},
	KindFinalRecommendation: {
		Subject: "Nueva Clasificación Académica: {{applicant.name}}",
		Body: `<html><body style="font-family: Arial, sans-serif;">
<h2 style="color: #0066cc;">Nueva Solicitud Clasificada</h2>
<p><strong>Solicitante:</strong> {{applicant.name}}</p>
<p><strong>Correo:</strong> {{applicant.email}}</p>
<h3 style="color: #0066cc;">Recomendación:</h3>
<p><strong>Nivel:</strong> <span style="color: #0066cc; font-size: 16px;">{{classification.level}}</span></p>
<p><strong>Programas:</strong></p>
{{programsHtml}}
<p><strong>Confianza:</strong> {{classification.confidence}}/10</p>
<p><strong>Justificación:</strong><br>{{classification.justification}}</p>
{{reviewHtml}}<hr>
<p style="font-size: 12px; color: #666;">{{attachmentNote}}<br>Sistema de Clasificación Académica - UCL</p>
</body></html>`,
	},
}

func (p Payload) vars() map[string]interface{} {
	greeting := defaultApplicantGreeting
	if p.ApplicantName != "" {
		greeting = "Estimado(a) " + p.ApplicantName
	}
	vars := map[string]interface{}{
		"greeting":        greeting,
		"form":            p.FormLabel,
		"progress":        p.Progress,
		"missingHtml":     "",
		"preliminaryHtml": "",
		"reviewHtml":      "",
		"programsHtml":    "",
		"applicant": map[string]interface{}{
			"name":  p.ApplicantName,
			"email": p.ApplicantEmail,
		},
		"attachmentNote": "El reporte no pudo adjuntarse; consulte el sistema de admisiones.",
	}
	if len(p.MissingForms) > 0 {
		vars["missingHtml"] = "<p>Formularios pendientes:</p>\n" + htmlList(p.MissingForms) + "\n"
	}
	if p.Attachment != nil {
		vars["attachmentNote"] = "Revise el documento adjunto para más detalles."
	}
	if c := p.Classification; c != nil {
		vars["classification"] = map[string]interface{}{
			"level":         c.Level,
			"confidence":    c.Confidence,
			"justification": c.Justification,
		}
		vars["programsHtml"] = htmlList(c.Programs)
		if c.Stage == models.StagePreliminary {
			vars["preliminaryHtml"] = fmt.Sprintf(
				"<p>Recomendación preliminar: <strong>%s</strong> (%s). La evaluación final se realizará al completar todos los formularios.</p>\n",
				html.EscapeString(c.Level), html.EscapeString(strings.Join(c.Programs, ", ")))
		}
		if c.Fallback || c.LowConfidence() {
			vars["reviewHtml"] = "<p style=\"color: #cc0000;\"><strong>ATENCIÓN:</strong> requiere revisión manual.</p>\n"
		}
	}
	return vars
}

func htmlList(items []string) string {
	var sb strings.Builder
	sb.WriteString("<ul>")
	for _, it := range items {
		sb.WriteString("<li>")
		sb.WriteString(html.EscapeString(it))
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
	return sb.String()
}

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.]+)\s*\}\}`)

// substitute replaces every placeholder in text. Unknown keys render empty.
func substitute(text string, vars map[string]interface{}, escape bool) string {
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		value := lookupNestedValue(vars, key)
		if value == nil {
			return ""
		}
		s := fmt.Sprint(value)
		if escape && !strings.HasSuffix(key, rawSuffix) {
			return html.EscapeString(s)
		}
		return s
	})
}

func lookupNestedValue(data map[string]interface{}, key string) interface{} {
	current := interface{}(data)
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		val, exists := m[part]
		if !exists {
			return nil
		}
		current = val
	}
	return current
}

// Render returns the subject and HTML body for kind.
func Render(kind Kind, p Payload) (string, string, error) {
	tpl, ok := templates[kind]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", kind)
	}
	vars := p.vars()
	return substitute(tpl.Subject, vars, false), substitute(tpl.Body, vars, true), nil
}
