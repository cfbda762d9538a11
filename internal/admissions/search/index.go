package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"admissions-tracker/internal/admissions/tracker"
	apperrors "admissions-tracker/internal/common/errors"
)

// ApplicantDocument is the indexed view of one applicant.
type ApplicantDocument struct {
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Status         string    `json:"status"`
	Progress       string    `json:"progress"`
	SubmittedForms []string  `json:"submittedForms"`
	MissingForms   []string  `json:"missingForms"`
	Level          string    `json:"level,omitempty"`
	Programs       []string  `json:"programs,omitempty"`
	Confidence     int       `json:"confidence,omitempty"`
	NeedsReview    bool      `json:"needsReview"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func DocumentFromSummary(s *tracker.Summary) ApplicantDocument {
	doc := ApplicantDocument{
		Email:          s.Email,
		Name:           s.Name,
		Status:         string(s.Status),
		Progress:       s.Progress,
		SubmittedForms: s.SubmittedForms,
		MissingForms:   s.MissingForms,
	}
	if s.UpdatedAt != nil {
		doc.UpdatedAt = *s.UpdatedAt
	}
	if c := s.Classification; c != nil {
		doc.Level = c.Level
		doc.Programs = c.Programs
		doc.Confidence = c.Confidence
		doc.NeedsReview = c.Fallback || c.LowConfidence()
	}
	return doc
}

var indexMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"email":       map[string]interface{}{"type": "keyword"},
			"name":        map[string]interface{}{"type": "text"},
			"status":      map[string]interface{}{"type": "keyword"},
			"level":       map[string]interface{}{"type": "keyword"},
			"programs":    map[string]interface{}{"type": "keyword"},
			"needsReview": map[string]interface{}{"type": "boolean"},
			"updatedAt":   map[string]interface{}{"type": "date"},
		},
	},
}

type Index struct {
	client *elasticsearch.Client
	index  string
}

func NewIndex(client *elasticsearch.Client, index string) *Index {
	return &Index{client: client, index: index}
}

// EnsureIndex creates the index with its mapping if it is missing.
func (i *Index) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{i.index}}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := json.Marshal(indexMapping)
	res, err = esapi.IndicesCreateRequest{Index: i.index, Body: bytes.NewReader(body)}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index failed: %s", res.String())
	}
	return nil
}

// Upsert writes the applicant document, keyed by email.
func (i *Index) Upsert(ctx context.Context, s *tracker.Summary) error {
	body, err := json.Marshal(DocumentFromSummary(s))
	if err != nil {
		return apperrors.NewSearchIndexFailedError(err)
	}

	res, err := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: s.Email,
		Body:       bytes.NewReader(body),
	}.Do(ctx, i.client)
	if err != nil {
		return apperrors.NewSearchIndexFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewSearchIndexFailedError(fmt.Errorf("index request failed: %s", res.String()))
	}
	return nil
}

type Query struct {
	Text   string
	Status string
	Level  string
	Page   int
	Limit  int
}

type Result struct {
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	Applicants []ApplicantDocument `json:"applicants"`
}

func (q *Query) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
}

func buildQuery(q Query) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if text := strings.TrimSpace(q.Text); text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": []string{"name^3", "email^2", "programs"},
				"type":   "best_fields",
			},
		})
	}
	if q.Status != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"status": q.Status}})
	}
	if q.Level != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"level": q.Level}})
	}
	if len(must) == 0 {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must, "filter": filter},
		},
		"sort": []map[string]interface{}{{"updatedAt": "desc"}},
	}
}

func (i *Index) Search(ctx context.Context, q Query) (*Result, error) {
	q.normalize()
	body, _ := json.Marshal(buildQuery(q))
	from := (q.Page - 1) * q.Limit

	res, err := esapi.SearchRequest{
		Index: []string{i.index},
		Body:  bytes.NewReader(body),
		From:  &from,
		Size:  &q.Limit,
	}.Do(ctx, i.client)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source ApplicantDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := &Result{Total: r.Hits.Total.Value, Page: q.Page, Limit: q.Limit, Applicants: []ApplicantDocument{}}
	for _, h := range r.Hits.Hits {
		out.Applicants = append(out.Applicants, h.Source)
	}
	return out, nil
}
