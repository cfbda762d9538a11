package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-tracker/internal/common/logger"
	"admissions-tracker/internal/models"
)

type fakeStore struct {
	objects map[string][]byte
	err     error
}

func (f *fakeStore) Bucket() string { return "admissions-reports" }

func (f *fakeStore) UploadBytes(_ context.Context, name string, data []byte, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.objects[name] = data
	return nil
}

var fixedNow = time.Date(2026, time.March, 5, 14, 7, 9, 0, time.UTC)

func sampleRecord() models.CanonicalRecord {
	return models.CanonicalRecord{
		"applicant_name":         "Ana Ruiz",
		"program_interest":       "Teología",
		"education_level":        models.NotSpecified,
		"ministerial_experience": "Rol: Líder | Años asistiendo: 8 | Iglesia: <Vida Nueva>",
		"phone_mobile":           "555-0100",
	}
}

func sampleResult() models.ClassificationResult {
	return models.ClassificationResult{
		Level:           models.LevelGraduate,
		Programs:        []string{"Maestría en Divinidad", "Maestría en Consejería Pastoral"},
		Justification:   "Experiencia pastoral amplia.",
		AdmissionsNotes: "Todo en orden.",
		Confidence:      8,
		Stage:           models.StageComprehensive,
	}
}

func newReporter(t *testing.T, store DocumentStore) *Reporter {
	r := New(store, logger.NewTestLogger(t))
	r.now = func() time.Time { return fixedNow }
	return r
}

func TestRenderStoresReport(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{}}
	doc, err := newReporter(t, store).Render(context.Background(), "ana@example.com", "Ana Ruiz", sampleRecord(), sampleResult())
	require.NoError(t, err)

	assert.Equal(t, "Clasificacion_Ana_Ruiz_20260305_140709.html", doc.Filename)
	assert.Equal(t, "admissions-reports", doc.Bucket)
	assert.Equal(t, "reports/ana@example.com/Clasificacion_Ana_Ruiz_20260305_140709.html", doc.ObjectKey)
	assert.Equal(t, doc.Content, store.objects[doc.ObjectKey])

	html := string(doc.Content)
	assert.Contains(t, html, "05 de marzo de 2026")
	assert.Contains(t, html, "Postgrado")
	assert.Contains(t, html, "8/10")
	assert.Contains(t, html, "555-0100")
	assert.Contains(t, html, "&lt;Vida Nueva&gt;")
	assert.Contains(t, html, "DETALLES DE PROGRAMAS")
	assert.Contains(t, html, "90 créditos")
	assert.NotContains(t, html, "Nivel de confianza bajo")
}

func TestRenderLowConfidenceWithoutStore(t *testing.T) {
	result := sampleResult()
	result.Confidence = 3
	result.Programs = []string{"Programa inexistente"}

	doc, err := newReporter(t, nil).Render(context.Background(), "ana@example.com", "", sampleRecord(), result)
	require.NoError(t, err)
	assert.Empty(t, doc.ObjectKey)

	html := string(doc.Content)
	assert.Contains(t, html, "Nivel de confianza bajo")
	assert.Contains(t, html, "notes-warning")
	assert.NotContains(t, html, "DETALLES DE PROGRAMAS")
}

func TestRenderUploadFailureKeepsContent(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{}, err: errors.New("bucket missing")}
	doc, err := newReporter(t, store).Render(context.Background(), "ana@example.com", "Ana Ruiz", sampleRecord(), sampleResult())
	require.NoError(t, err)
	assert.Empty(t, doc.ObjectKey)
	assert.NotEmpty(t, doc.Content)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Clasificacion_José_Pérez_20260305_140709.html", Filename(" José Pérez ", fixedNow))
	assert.Equal(t, "Clasificacion_a_b_20260305_140709.html", Filename("a/b", fixedNow))
	assert.Equal(t, "Clasificacion_Solicitante_20260305_140709.html", Filename("", fixedNow))
}

type stalledStore struct{}

func (stalledStore) Bucket() string { return "admissions-reports" }

func (stalledStore) UploadBytes(ctx context.Context, _ string, _ []byte, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRenderStalledUploadHonoursDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	doc, err := newReporter(t, stalledStore{}).Render(ctx, "ana@example.com", "Ana Ruiz", sampleRecord(), sampleResult())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)

	assert.Empty(t, doc.ObjectKey)
	assert.Empty(t, doc.Bucket)
	assert.NotEmpty(t, doc.Content)
}
