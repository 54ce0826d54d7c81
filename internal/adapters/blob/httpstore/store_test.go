package httpstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-tracker/internal/ports/blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Upload_PutsBinaryAndReturnsURL(t *testing.T) {
	var gotMethod, gotPath, gotCT, gotKey string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotCT = r.Header.Get("Content-Type")
		gotKey = r.Header.Get("X-Api-Key")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s, err := New(Config{BaseURL: srv.URL, APIKey: "k1"})
	require.NoError(t, err)

	ref, err := s.Upload(context.Background(), "users/u1/pets/1", blob.Object{ContentType: "image/jpeg", Data: []byte("jpg")})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/users/u1/pets/1", gotPath)
	assert.Equal(t, "image/jpeg", gotCT)
	assert.Equal(t, "k1", gotKey)
	assert.Equal(t, []byte("jpg"), gotBody)
	assert.Equal(t, srv.URL+"/users/u1/pets/1", ref)
}

func TestStore_Upload_UsesURLFromResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/p/1"}`))
	}))
	defer srv.Close()

	s, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	ref, err := s.Upload(context.Background(), "users/u1/pets/1", blob.Object{Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/p/1", ref)
}

func TestStore_UpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), "users/u1/pets/1", blob.Object{Data: []byte("x")})
	assert.ErrorIs(t, err, ErrUpstream)

	err = s.Delete(context.Background(), srv.URL+"/users/u1/pets/1")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
