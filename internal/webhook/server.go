package webhook

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"admissions-tracker/internal/admissions/orchestrator"
	"admissions-tracker/internal/admissions/search"
	"admissions-tracker/internal/admissions/tracker"
	"admissions-tracker/internal/common/logger"
	"admissions-tracker/internal/models"
)

type Submitter interface {
	HandleSubmission(ctx context.Context, formID models.FormID, raw map[string]interface{}) *orchestrator.Result
}

type ApplicantReader interface {
	Summary(ctx context.Context, key models.ApplicantKey) (*tracker.Summary, error)
}

type ApplicantSearcher interface {
	Search(ctx context.Context, q search.Query) (*search.Result, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type RequestRecorder interface {
	RecordRequest(ctx context.Context, route string, status int, duration time.Duration)
}

// Deps wires the handler. Search and Recorder may be nil.
type Deps struct {
	Service    string
	Submitter  Submitter
	Applicants ApplicantReader
	Search     ApplicantSearcher
	Readiness  map[string]Pinger
	Recorder   RequestRecorder
}

type Handler struct {
	deps   Deps
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(deps Deps, log logger.Logger) *Handler {
	return &Handler{
		deps:   deps,
		logger: log.WithFields(map[string]interface{}{"component": "webhook"}),
		now:    time.Now,
	}
}

// webhookRoutes maps each form-specific endpoint to its form.
var webhookRoutes = map[string]models.FormID{
	"/webhook/estados-unidos": models.FormEstadosUnidos,
	"/webhook/latinoamerica":  models.FormLatinoamerica,
	"/webhook/experiencia":    models.FormExperiencia,
	"/webhook/recomendacion":  models.FormRecomendacion,
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	hooks := router.Group("/")
	hooks.Use(h.recordRequests())
	for path, formID := range webhookRoutes {
		hooks.POST(path, h.Submit(formID))
	}
	hooks.POST("/webhook/machform", h.Deprecated)

	api := router.Group("/api")
	{
		api.GET("/applicants", h.SearchApplicants)
		api.GET("/applicants/:email", h.GetApplicant)
	}
}

// NewRouter builds a gin engine with recovery and the handler's routes.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	h.RegisterRoutes(router)
	return router
}

func (h *Handler) recordRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if h.deps.Recorder != nil {
			h.deps.Recorder.RecordRequest(c.Request.Context(), c.FullPath(), c.Writer.Status(), time.Since(start))
		}
	}
}
