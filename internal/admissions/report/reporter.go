package report

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "admissions-tracker/internal/common/errors"
	"admissions-tracker/internal/common/logger"
	"admissions-tracker/internal/models"
)

const ContentTypeHTML = "text/html; charset=utf-8"

// DocumentStore persists rendered reports. storage.MinIOClient satisfies it.
type DocumentStore interface {
	Bucket() string
	UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) error
}

type Reporter struct {
	store  DocumentStore
	logger logger.Logger
	now    func() time.Time
}

// New builds a reporter. With a nil store reports are only kept in memory on
// the returned handle.
func New(store DocumentStore, log logger.Logger) *Reporter {
	return &Reporter{
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "reporter"}),
		now:    time.Now,
	}
}

// Render builds the report document. A failed upload is logged and the
// handle is still returned with its content so it can be attached.
func (r *Reporter) Render(ctx context.Context, key models.ApplicantKey, name string, rec models.CanonicalRecord, result models.ClassificationResult) (*models.DocumentHandle, error) {
	now := r.now()
	if name == "" {
		name = rec.Get("applicant_name")
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, Build(key, name, rec, result, now)); err != nil {
		return nil, apperrors.NewReportFailedError(err)
	}

	doc := &models.DocumentHandle{
		Filename:    Filename(name, now),
		ContentType: ContentTypeHTML,
		Content:     buf.Bytes(),
	}

	if r.store == nil {
		return doc, nil
	}

	objectKey := fmt.Sprintf("reports/%s/%s", key.String(), doc.Filename)
	if err := r.store.UploadBytes(ctx, objectKey, doc.Content, doc.ContentType); err != nil {
		r.logger.Warn("Report upload failed", map[string]interface{}{
			"applicant": key.String(),
			"object":    objectKey,
			"error":     err.Error(),
		})
		return doc, nil
	}
	doc.Bucket = r.store.Bucket()
	doc.ObjectKey = objectKey
	return doc, nil
}

var unsafeFilename = regexp.MustCompile(`[^\p{L}\p{N}_.-]+`)

// Filename is Clasificacion_<Name>_<yyyymmdd_hhmmss>.html with the name made
// path-safe.
func Filename(name string, at time.Time) string {
	safe := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	safe = unsafeFilename.ReplaceAllString(safe, "_")
	if safe == "" {
		safe = "Solicitante"
	}
	return fmt.Sprintf("Clasificacion_%s_%s.html", safe, at.Format("20060102_150405"))
}
