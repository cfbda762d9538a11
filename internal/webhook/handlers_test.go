package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-tracker/internal/admissions/orchestrator"
	"admissions-tracker/internal/admissions/search"
	"admissions-tracker/internal/admissions/store"
	"admissions-tracker/internal/admissions/tracker"
	"admissions-tracker/internal/common/logger"
	"admissions-tracker/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type submission struct {
	FormID models.FormID
	Raw    map[string]interface{}
}

type fakeSubmitter struct {
	mu     sync.Mutex
	calls  []submission
	result *orchestrator.Result
}

func (f *fakeSubmitter) HandleSubmission(_ context.Context, formID models.FormID, raw map[string]interface{}) *orchestrator.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, submission{FormID: formID, Raw: raw})
	if f.result != nil {
		return f.result
	}
	return &orchestrator.Result{Status: orchestrator.StatusSuccess, Message: "Form received, acknowledgment sent", HTTPStatus: http.StatusOK}
}

type fakeSearch struct {
	query search.Query
	err   error
}

func (f *fakeSearch) Search(_ context.Context, q search.Query) (*search.Result, error) {
	f.query = q
	if f.err != nil {
		return nil, f.err
	}
	return &search.Result{Total: 1, Page: q.Page, Limit: q.Limit, Applicants: []search.ApplicantDocument{{Email: "ana@example.com"}}}, nil
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type recorded struct {
	route  string
	status int
}

type fakeRecorder struct{ requests []recorded }

func (f *fakeRecorder) RecordRequest(_ context.Context, route string, status int, _ time.Duration) {
	f.requests = append(f.requests, recorded{route: route, status: status})
}

type fixture struct {
	router    *gin.Engine
	submitter *fakeSubmitter
	tracker   *tracker.Tracker
	search    *fakeSearch
	recorder  *fakeRecorder
	ready     error
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		submitter: &fakeSubmitter{},
		tracker:   tracker.New(store.NewMemoryStore(), nil, logger.NewNoOpLogger()),
		search:    &fakeSearch{},
		recorder:  &fakeRecorder{},
	}
	h := NewHandler(Deps{
		Service:    "admissions-tracker",
		Submitter:  f.submitter,
		Applicants: f.tracker,
		Search:     f.search,
		Readiness:  map[string]Pinger{"store": pingFunc(func(context.Context) error { return f.ready })},
		Recorder:   f.recorder,
	}, logger.NewTestLogger(t))
	f.router = NewRouter(h)
	return f
}

func (f *fixture) do(method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestWebhookRoutesSelectForm(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		path string
		want models.FormID
	}{
		{"/webhook/estados-unidos", models.FormEstadosUnidos},
		{"/webhook/latinoamerica", models.FormLatinoamerica},
		{"/webhook/experiencia", models.FormExperiencia},
		{"/webhook/recomendacion", models.FormRecomendacion},
	}
	for i, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := f.do(http.MethodPost, tt.path, "application/json", `{"element_1":"Ana","entry_no":7}`)
			require.Equal(t, http.StatusOK, w.Code)
			require.Len(t, f.submitter.calls, i+1)
			call := f.submitter.calls[i]
			assert.Equal(t, tt.want, call.FormID)
			assert.Equal(t, "Ana", call.Raw["element_1"])
			assert.Equal(t, float64(7), call.Raw["entry_no"])
		})
	}
	require.NotEmpty(t, f.recorder.requests)
	assert.Equal(t, "/webhook/estados-unidos", f.recorder.requests[0].route)
}

func TestWebhookFormEncoded(t *testing.T) {
	f := newFixture(t)
	form := url.Values{"element_1": {"Ana"}, "element_45": {"Educación", "Salud"}}

	w := f.do(http.MethodPost, "/webhook/experiencia", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.submitter.calls, 1)
	raw := f.submitter.calls[0].Raw
	assert.Equal(t, "Ana", raw["element_1"])
	assert.Equal(t, []string{"Educación", "Salud"}, raw["element_45"])
}

func TestWebhookResultStatusPassesThrough(t *testing.T) {
	f := newFixture(t)
	f.submitter.result = &orchestrator.Result{
		Status:     orchestrator.StatusError,
		Message:    "Form payload could not be normalized",
		Details:    map[string]interface{}{"code": "NORMALIZATION_FAILED"},
		HTTPStatus: http.StatusBadRequest,
	}

	w := f.do(http.MethodPost, "/webhook/estados-unidos", "application/json", `{"element_1":"Ana"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "NORMALIZATION_FAILED", body["details"].(map[string]interface{})["code"])
	assert.NotContains(t, body, "HTTPStatus")
}

func TestWebhookRejectsUnreadableBody(t *testing.T) {
	f := newFixture(t)

	for _, body := range []string{"", "{not json", "{}"} {
		w := f.do(http.MethodPost, "/webhook/estados-unidos", "application/json", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Empty(t, f.submitter.calls)
}

func TestDeprecatedRoute(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodPost, "/webhook/machform", "application/json", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Please use form-specific endpoints", body["error"])
	endpoints := body["endpoints"].(map[string]interface{})
	assert.Equal(t, "/webhook/latinoamerica", endpoints["latinoamerica"])
	assert.Empty(t, f.submitter.calls)
}

func TestHealthAndReady(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	w = f.do(http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	f.ready = errors.New("connection refused")
	w = f.do(http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	checks := decode(t, w)["checks"].(map[string]interface{})
	assert.Equal(t, "connection refused", checks["store"])
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestGetApplicant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w := f.do(http.MethodGet, "/api/applicants/ana@example.com", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, decode(t, w)["exists"])

	_, err := f.tracker.RecordSubmission(ctx, "ana@example.com", models.FormEstadosUnidos, models.CanonicalRecord{"applicant_name": "Ana Ruiz"})
	require.NoError(t, err)

	w = f.do(http.MethodGet, "/api/applicants/ANA@example.com", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ana@example.com", body["email"])
	assert.Equal(t, "Ana Ruiz", body["name"])
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "1/3", body["progress"])
	assert.Len(t, body["missingForms"], 2)
}

func TestSearchApplicants(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/applicants?search=ana&status=all&level=Pregrado&page=2&limit=x", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana", f.search.query.Text)
	assert.Equal(t, "", f.search.query.Status)
	assert.Equal(t, "Pregrado", f.search.query.Level)
	assert.Equal(t, 2, f.search.query.Page)
	assert.Equal(t, 20, f.search.query.Limit)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	f.search.err = errors.New("es down")
	w = f.do(http.MethodGet, "/api/applicants?q=ana", "", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSearchDisabled(t *testing.T) {
	h := NewHandler(Deps{Submitter: &fakeSubmitter{}, Applicants: tracker.New(store.NewMemoryStore(), nil, logger.NewNoOpLogger())}, logger.NewNoOpLogger())
	router := NewRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/applicants", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
