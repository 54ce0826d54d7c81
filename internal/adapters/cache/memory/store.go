package memory

import (
	"context"
	"sync"

	"pet-tracker/internal/ports/cache"
)

// Store guarda snapshots en un map. Se pierde al reiniciar.
type Store struct {
	mu   sync.RWMutex
	byID map[string]string
}

func NewStore() *Store {
	return &Store{byID: make(map[string]string)}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.byID[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[key] = value
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byID, key)
	return nil
}

var _ cache.Store = (*Store)(nil)
