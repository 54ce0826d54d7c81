package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-tracker/internal/ports/auth"
)

func newIAM(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != verifyPath || r.Header.Get("X-Api-Key") != "svc-key" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var in verifyRequest
		_ = json.NewDecoder(r.Body).Decode(&in)

		switch in.Token {
		case "good":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"user_id":"u1","email":"ana@example.com"}`))
		case "no-user":
			_, _ = w.Write([]byte(`{"user_id":" "}`))
		case "boom":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerify(t *testing.T) {
	srv := newIAM(t)
	v, err := NewVerifier(Config{BaseURL: srv.URL, APIKey: "svc-key"})
	require.NoError(t, err)
	ctx := context.Background()

	claims, err := v.Verify(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "u1", Email: "ana@example.com"}, claims)

	_, err = v.Verify(ctx, "bad")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	_, err = v.Verify(ctx, "boom")
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = v.Verify(ctx, "no-user")
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = v.Verify(ctx, "")
	assert.ErrorIs(t, err, ErrTokenEmpty)
}

func TestNewVerifier_RequiresConfig(t *testing.T) {
	_, err := NewVerifier(Config{BaseURL: "http://iam"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
