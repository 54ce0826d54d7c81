// Package httpstore habla con un object store remoto por HTTP:
// PUT {base}/{path} con el binario y DELETE {url}.
package httpstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-tracker/internal/platform/httpclient"
	"pet-tracker/internal/ports/blob"
)

var (
	ErrNotConfigured = errors.New("blob store not configured")
	ErrUpstream      = errors.New("blob store upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration
}

type Store struct {
	client *httpclient.Client
}

func New(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	c, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	if k := strings.TrimSpace(cfg.APIKey); k != "" {
		c.DefaultHeaders[h] = k
	}
	return &Store{client: c}, nil
}

// NewWithClient es para tests (cliente apuntando a httptest).
func NewWithClient(c *httpclient.Client) *Store {
	return &Store{client: c}
}

// uploadResponse: el store puede devolver la URL pública; si no, usamos la del PUT.
type uploadResponse struct {
	URL string `json:"url"`
}

func (s *Store) Upload(ctx context.Context, path string, obj blob.Object) (string, error) {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return "", errors.New("blob path required")
	}

	ct := obj.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}

	raw, err := s.client.Do(ctx, httpclient.Request{
		Method:      http.MethodPut,
		PathOrURL:   "/" + path,
		Body:        obj.Data,
		ContentType: ct,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var out uploadResponse
	if len(raw) > 0 {
		// Respuesta no-JSON => usamos la URL del PUT.
		_ = json.Unmarshal(raw, &out)
	}
	if strings.TrimSpace(out.URL) != "" {
		return out.URL, nil
	}
	return s.client.BaseURL + "/" + path, nil
}

func (s *Store) Delete(ctx context.Context, ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return errors.New("blob ref required")
	}

	_, err := s.client.Do(ctx, httpclient.Request{
		Method:    http.MethodDelete,
		PathOrURL: ref,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}

var _ blob.Store = (*Store)(nil)
