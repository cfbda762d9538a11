package report

import "html/template"

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Subtitle}}</title>
<style>
body { font-family: Arial, sans-serif; font-size: 11pt; margin: 40px; }
h1, h2.subtitle { text-align: center; }
.level { color: #0066cc; font-size: 14pt; font-weight: bold; }
.warning { color: #cc0000; font-weight: bold; }
.notes-warning { color: #cc6600; }
.footer { font-size: 9pt; font-style: italic; }
.disclaimer { font-size: 8pt; font-style: italic; color: #808080; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<h2 class="subtitle">{{.Subtitle}}</h2>
<p><strong>Fecha: {{.GeneratedDate}}</strong></p>

<h2>INFORMACIÓN DEL SOLICITANTE</h2>
{{range .Applicant}}<p><strong>{{.Label}}:</strong> {{.Value}}</p>
{{end}}
<h2>RECOMENDACIÓN ACADÉMICA</h2>
<p><strong>Nivel Recomendado:</strong> <span class="level">{{.Level}}</span></p>
<p><strong>Programas Sugeridos:</strong></p>
<ul>
{{range .Programs}}<li>{{.}}</li>
{{end}}</ul>
<p><strong>Nivel de Confianza:</strong> {{.Confidence}}</p>
{{if .LowConfidence}}<p class="warning">ATENCIÓN: Nivel de confianza bajo. Revisión manual recomendada.</p>{{end}}

<h2>JUSTIFICACIÓN</h2>
<p>{{.Justification}}</p>

<h2>EXPERIENCIA MINISTERIAL</h2>
<p>{{.MinisterialExperience}}</p>
{{if .Readiness}}
<h2>EVALUACIÓN DE PREPARACIÓN</h2>
<p>{{.Readiness}}</p>
{{end}}
<h2>NOTAS PARA ADMISIONES</h2>
<p class="{{if .LowConfidence}}notes-warning{{else}}notes-info{{end}}">{{.AdmissionsNotes}}</p>
{{if .PendingDocuments}}<p><strong>Documentos pendientes:</strong></p>
<ul>
{{range .PendingDocuments}}<li>{{.}}</li>
{{end}}</ul>{{end}}
{{if .Details}}
<h2>DETALLES DE PROGRAMAS</h2>
{{range .Details}}<h3>{{.Name}}</h3>
<p><strong>Duración:</strong> {{.Detail.Duration}}<br>
<strong>Créditos:</strong> {{.Detail.Credits}}<br>
<strong>Formato:</strong> {{.Detail.Format}}<br>
<strong>Enfoque:</strong> {{.Detail.Focus}}<br>
<strong>Prerrequisitos:</strong> {{.Detail.Prerequisites}}</p>
{{end}}{{end}}
<hr>
<p class="footer">{{.FooterText}}</p>
<p class="disclaimer">{{.Disclaimer}}</p>
</body>
</html>
`))
