package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-tracker/internal/ports/blob"
)

var ErrNotFound = errors.New("blob not found")

// Store guarda blobs en memoria y devuelve URLs memory://{path}.
type Store struct {
	mu      sync.RWMutex
	objects map[string]blob.Object
}

const scheme = "memory://"

func NewStore() *Store {
	return &Store{objects: make(map[string]blob.Object)}
}

func (s *Store) Upload(ctx context.Context, path string, obj blob.Object) (string, error) {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return "", errors.New("blob path required")
	}

	data := make([]byte, len(obj.Data))
	copy(data, obj.Data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = blob.Object{ContentType: obj.ContentType, Data: data}

	return scheme + path, nil
}

func (s *Store) Delete(ctx context.Context, ref string) error {
	path := strings.TrimPrefix(strings.TrimSpace(ref), scheme)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[path]; !ok {
		return ErrNotFound
	}
	delete(s.objects, path)
	return nil
}

// Get devuelve el objeto por ref. Lo usan tests y el modo dev.
func (s *Store) Get(ref string) (blob.Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[strings.TrimPrefix(ref, scheme)]
	return obj, ok
}

// Len cuenta los blobs guardados.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

var _ blob.Store = (*Store)(nil)
