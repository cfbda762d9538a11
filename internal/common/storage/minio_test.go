package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodHead:
		if f.buckets[r.URL.Path[1:]] {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		path := r.URL.Path[1:]
		if strings.Contains(path, "/") {
			f.objects[path] = body
		} else {
			f.buckets[path] = true
		}
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakeClient(t *testing.T) (*MinIOClient, *fakeS3) {
	fake := &fakeS3{buckets: map[string]bool{}, objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewMinIOClient(Config{
		Endpoint:  srv.URL,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "admissions-reports",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	return client, fake
}

func TestEnsureBucketCreatesMissingBucket(t *testing.T) {
	client, fake := newFakeClient(t)

	require.NoError(t, client.EnsureBucket(context.Background()))
	assert.True(t, fake.buckets["admissions-reports"])

	require.NoError(t, client.EnsureBucket(context.Background()))
	assert.Equal(t, "admissions-reports", client.Bucket())
}

func TestUploadBytes(t *testing.T) {
	client, fake := newFakeClient(t)
	fake.buckets["admissions-reports"] = true

	err := client.UploadBytes(context.Background(), "reports/a@b.com/report.html", []byte("<html></html>"), "text/html")
	require.NoError(t, err)
	// the body may arrive chunk-signed over plain http, so only presence is checked
	assert.Contains(t, fake.objects, "admissions-reports/reports/a@b.com/report.html")
}
