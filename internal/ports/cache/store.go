package cache

import (
	"context"
	"errors"
)

// ErrMiss indica que la key no tiene snapshot guardado.
var ErrMiss = errors.New("cache miss")

// Store es la persistencia local: snapshots serializados por key.
// Un Set reemplaza el valor completo de la key de forma atómica.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
