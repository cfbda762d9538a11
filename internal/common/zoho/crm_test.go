package zoho

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

type fakeZoho struct {
	contacts map[string]Contact
	created  int
	updated  int
}

func (f *fakeZoho) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Zoho-oauthtoken tok" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/Contacts/search":
		c, ok := f.contacts[r.URL.Query().Get("email")]
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": []Contact{c}})
	case r.Method == http.MethodPost && r.URL.Path == "/Contacts":
		var body struct{ Data []Contact }
		_ = json.NewDecoder(r.Body).Decode(&body)
		c := body.Data[0]
		c.ID = "c-1"
		f.contacts[c.Email] = c
		f.created++
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":[{"code":"SUCCESS","details":{"id":"c-1"},"status":"success"}]}`))
	case r.Method == http.MethodPut && r.URL.Path == "/Contacts/c-1":
		f.updated++
		_, _ = w.Write([]byte(`{"data":[{"code":"SUCCESS","details":{"id":"c-1"},"status":"success"}]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestUpsertContact(t *testing.T) {
	fake := &fakeZoho{contacts: map[string]Contact{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := NewCRMClient(srv.URL, "tok", 5*time.Second)
	ctx := context.Background()

	id, created, err := client.UpsertContact(ctx, &Contact{Email: "ana+test@example.com", LastName: "Ruiz", FormsCount: 1})
	require.NoError(t, err)
	assert.Equal(t, "c-1", id)
	assert.True(t, created)

	id, created, err = client.UpsertContact(ctx, &Contact{Email: "ana+test@example.com", LastName: "Ruiz", FormsCount: 2})
	require.NoError(t, err)
	assert.Equal(t, "c-1", id)
	assert.False(t, created)

	assert.Equal(t, 1, fake.created)
	assert.Equal(t, 1, fake.updated)
}

func TestSearchContactsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(&fakeZoho{contacts: map[string]Contact{}})
	defer srv.Close()

	_, err := NewCRMClient(srv.URL, "wrong", time.Second).SearchContacts(context.Background(), "a@b.com")
	assert.Error(t, err)
}
