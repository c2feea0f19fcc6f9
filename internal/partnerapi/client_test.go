package partnerapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/organizations/org-1/bps/BP-1":
			_, _ = w.Write([]byte(`{"nome":"ACME"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "tkn", time.Second)

	body, err := c.Get(context.Background(), "org-1", "BP-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"nome":"ACME"}`, string(body))

	_, err = c.Get(context.Background(), "org-1", "BP-404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAndUpdate(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/organizations/org-1/bps":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"data":{"id":"BP-77"}}`))
		case r.Method == http.MethodPut && r.URL.Path == "/api/organizations/org-1/bps/BP-77":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)

	id, err := c.Create(context.Background(), "org-1", []byte(`{"nome_fantasia":"ACME"}`))
	require.NoError(t, err)
	assert.Equal(t, "BP-77", id)
	assert.Equal(t, `{"nome_fantasia":"ACME"}`, gotBody)

	require.NoError(t, c.Update(context.Background(), "org-1", "BP-77", []byte(`{}`)))
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"cnpj duplicado"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)
	err := c.Update(context.Background(), "org-1", "BP-1", []byte(`{}`))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "cnpj duplicado")
}

func TestCreatedID(t *testing.T) {
	assert.Equal(t, "1", createdID([]byte(`{"id":"1"}`)))
	assert.Equal(t, "2", createdID([]byte(`{"bp_id":2}`)))
	assert.Equal(t, "", createdID([]byte(`{}`)))
	assert.Equal(t, "", createdID(nil))
}
