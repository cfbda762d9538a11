package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"admissions-tracker/internal/admissions/search"
	apperrors "admissions-tracker/internal/common/errors"
	"admissions-tracker/internal/models"
)

const maxBodyBytes = 2 << 20

var errEmptyPayload = errors.New("empty payload")

// Submit handles one form-specific webhook. The body is JSON or
// form-encoded; the status code comes from the pipeline result.
func (h *Handler) Submit(formID models.FormID) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := readPayload(c)
		if err != nil {
			h.logger.Warn("Unreadable webhook payload", map[string]interface{}{
				"formId": string(formID),
				"error":  err.Error(),
			})
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Payload could not be read",
				"details": gin.H{"reason": err.Error()},
			})
			return
		}

		res := h.deps.Submitter.HandleSubmission(c.Request.Context(), formID, raw)
		c.JSON(res.HTTPStatus, res)
	}
}

func readPayload(c *gin.Context) (map[string]interface{}, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		return formValues(form.Value)
	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, err
		}
		return formValues(c.Request.PostForm)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, errEmptyPayload
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errEmptyPayload
	}
	return raw, nil
}

func formValues(values map[string][]string) (map[string]interface{}, error) {
	if len(values) == 0 {
		return nil, errEmptyPayload
	}
	raw := make(map[string]interface{}, len(values))
	for k, v := range values {
		switch len(v) {
		case 0:
		case 1:
			raw[k] = v[0]
		default:
			raw[k] = v
		}
	}
	return raw, nil
}

// Deprecated answers the old shared endpoint with the form-specific map.
func (h *Handler) Deprecated(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": "Please use form-specific endpoints",
		"endpoints": gin.H{
			"estados_unidos": "/webhook/estados-unidos",
			"latinoamerica":  "/webhook/latinoamerica",
			"experiencia":    "/webhook/experiencia",
			"recomendacion":  "/webhook/recomendacion",
		},
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   h.deps.Service,
		"timestamp": h.now().UTC(),
	})
}

func (h *Handler) Ready(c *gin.Context) {
	checks := gin.H{}
	ready := true
	for name, p := range h.deps.Readiness {
		if err := p.Ping(c.Request.Context()); err != nil {
			checks[name] = err.Error()
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
}

func (h *Handler) GetApplicant(c *gin.Context) {
	key, err := models.NewApplicantKey(c.Param("email"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.deps.Applicants.Summary(c.Request.Context(), key)
	if err != nil {
		stdErr := apperrors.AsStandard(err)
		h.logger.Error("Applicant lookup failed", map[string]interface{}{
			"applicant": key.String(),
			"code":      string(stdErr.Code),
		})
		c.JSON(apperrors.HTTPStatus(stdErr.Code), gin.H{"error": stdErr.Message})
		return
	}
	if !summary.Exists {
		c.JSON(http.StatusNotFound, summary)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) SearchApplicants(c *gin.Context) {
	if h.deps.Search == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "applicant search is disabled"})
		return
	}

	q := search.Query{
		Text:   c.Query("q"),
		Status: filterValue(c.Query("status")),
		Level:  filterValue(c.Query("level")),
		Page:   intQuery(c, "page", 1),
		Limit:  intQuery(c, "limit", 20),
	}
	if q.Text == "" {
		q.Text = c.Query("search")
	}

	res, err := h.deps.Search.Search(c.Request.Context(), q)
	if err != nil {
		h.logger.Error("Applicant search failed", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusBadGateway, gin.H{"error": "search backend unavailable"})
		return
	}
	c.JSON(http.StatusOK, res)
}

func filterValue(v string) string {
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

func intQuery(c *gin.Context, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return n
}
