package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/echo":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "token", r.Header.Get("Authorization"))
			var in map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{"got": in["name"]})
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		}
	}))
	defer srv.Close()

	client := NewClient(5 * time.Second)
	ctx := context.Background()

	var out map[string]string
	status, err := client.DoJSON(ctx, http.MethodPost, srv.URL+"/echo", map[string]string{"Authorization": "token"},
		map[string]string{"name": "ana"}, &out, http.StatusCreated)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "ana", out["got"])

	out = nil
	status, err = client.DoJSON(ctx, http.MethodGet, srv.URL+"/empty", nil, nil, &out, http.StatusOK, http.StatusNoContent)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Nil(t, out)

	_, err = client.DoJSON(ctx, http.MethodGet, srv.URL+"/other", nil, nil, nil)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "upstream down", statusErr.Body)
}
