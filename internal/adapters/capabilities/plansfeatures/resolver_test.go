package plansfeatures

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-tracker/internal/ports/capabilities"
)

func newPlans(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.Header.Get("X-Api-Key") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("user_id") == "premium" {
			_, _ = w.Write([]byte(`{"capabilities":{"ads:free":true}}`))
			return
		}
		_, _ = w.Write([]byte(`{"capabilities":{}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolver_HasFeature(t *testing.T) {
	var calls int32
	srv := newPlans(t, &calls)

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k"})
	require.NoError(t, err)
	r := NewResolver(c, time.Minute)
	ctx := context.Background()

	ok, err := r.HasFeature(ctx, capabilities.CapabilityCheck{UserID: "premium", Feature: capabilities.FeatureAdFree})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.HasFeature(ctx, capabilities.CapabilityCheck{UserID: "free", Feature: capabilities.FeatureAdFree})
	require.NoError(t, err)
	assert.False(t, ok)

	// cacheado
	_, err = r.HasFeature(ctx, capabilities.CapabilityCheck{UserID: "premium", Feature: capabilities.FeatureAdFree})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestResolver_TTLExpires(t *testing.T) {
	var calls int32
	srv := newPlans(t, &calls)

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k"})
	require.NoError(t, err)
	r := NewResolver(c, time.Minute)

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	in := capabilities.CapabilityCheck{UserID: "premium", Feature: capabilities.FeatureAdFree}
	_, err = r.HasFeature(context.Background(), in)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = r.HasFeature(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Unauthorized(t *testing.T) {
	var calls int32
	srv := newPlans(t, &calls)

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "wrong"})
	require.NoError(t, err)

	_, err = c.GetCapabilities(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrPlansUnauthorized)
}
