package pets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"pet-tracker/internal/observability"
	"pet-tracker/internal/ports/cache"
)

// Colecciones cacheadas. También se usan como label de métricas.
const (
	collectionPets            = "pets"
	collectionWeights         = "weights"
	collectionFeedings        = "feedings"
	collectionMedications     = "medications"
	collectionAdministrations = "administrations"
)

// Keys de snapshot: {colección}/{userID}[/{petID}[/{medicationID}]].
// Cada segmento va escapado: la cache es compartida entre usuarios y los ids
// vienen del caller, así que dos combinaciones distintas no pueden dar la
// misma key.
func snapshotKey(collection string, ids ...string) string {
	parts := make([]string, 0, len(ids)+1)
	parts = append(parts, collection)
	for _, id := range ids {
		parts = append(parts, url.PathEscape(id))
	}
	return strings.Join(parts, "/")
}

func petsKey(userID string) string {
	return snapshotKey(collectionPets, userID)
}

func childKey(collection, userID, petID string) string {
	return snapshotKey(collection, userID, petID)
}

func administrationsKey(userID, petID, medicationID string) string {
	return snapshotKey(collectionAdministrations, userID, petID, medicationID)
}

// readThrough devuelve el snapshot cacheado de key si existe.
// Si no, carga desde el remote store, guarda el resultado y lo devuelve.
// Cualquier problema con la cache se loguea y se trata como miss.
func readThrough[T any](ctx context.Context, s *Service, key, collection string, load func(context.Context) ([]T, error)) ([]T, error) {
	if items, ok := getSnapshot[T](ctx, s, key, collection); ok {
		observability.RecordCacheHit(collection)
		return items, nil
	}
	observability.RecordCacheMiss(collection)

	items, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteRead, err)
	}
	if items == nil {
		items = []T{}
	}

	setSnapshot(ctx, s, key, items)
	return items, nil
}

// refreshAfterWrite relee la colección completa desde el remote store y
// reemplaza el snapshot. Nunca usa el objeto recién escrito como valor.
// Si la relectura falla, la escritura ya ocurrió: invalidamos la key para
// que la próxima lectura vaya al remote en vez de servir datos viejos.
func refreshAfterWrite[T any](ctx context.Context, s *Service, key, collection string, load func(context.Context) ([]T, error)) {
	items, err := load(ctx)
	if err != nil {
		s.log.Warn("cache refresh failed, invalidating", map[string]any{
			"key":   key,
			"error": err,
		})
		deleteSnapshot(ctx, s, key)
		return
	}
	if items == nil {
		items = []T{}
	}

	setSnapshot(ctx, s, key, items)
	observability.RecordCacheRefresh(collection)
}

func getSnapshot[T any](ctx context.Context, s *Service, key, collection string) ([]T, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			observability.RecordCacheError("get")
			s.log.Warn("cache get failed", map[string]any{
				"key":   key,
				"error": fmt.Errorf("%w: %w", ErrCache, err),
			})
		}
		return nil, false
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// Snapshot corrupto: lo ignoramos; el próximo set lo pisa.
		observability.RecordCacheError("decode")
		s.log.Warn("cache snapshot undecodable", map[string]any{
			"key":        key,
			"collection": collection,
			"error":      err,
		})
		return nil, false
	}
	if items == nil {
		items = []T{}
	}
	return items, true
}

func setSnapshot[T any](ctx context.Context, s *Service, key string, items []T) {
	b, err := json.Marshal(items)
	if err != nil {
		observability.RecordCacheError("encode")
		s.log.Error("cache snapshot encode failed", map[string]any{"key": key, "error": err})
		return
	}
	if err := s.cache.Set(ctx, key, string(b)); err != nil {
		observability.RecordCacheError("set")
		s.log.Warn("cache set failed", map[string]any{
			"key":   key,
			"error": fmt.Errorf("%w: %w", ErrCache, err),
		})
	}
}

func deleteSnapshot(ctx context.Context, s *Service, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		observability.RecordCacheError("delete")
		s.log.Warn("cache delete failed", map[string]any{
			"key":   key,
			"error": fmt.Errorf("%w: %w", ErrCache, err),
		})
	}
}
