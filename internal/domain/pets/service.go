package pets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pet-tracker/internal/observability"
	"pet-tracker/internal/platform/logger"
	"pet-tracker/internal/ports/blob"
	"pet-tracker/internal/ports/cache"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Service es el único punto de acceso a mascotas y sus entradas.
//
// Lecturas: cache primero; en miss se lee del remote store y se guarda
// el snapshot. Escrituras: siempre remote primero; después se relee la
// colección completa y se reemplaza el snapshot.
//
// No hay locks entre pasos (foto -> documento -> cache) ni reintentos:
// dos updates concurrentes de la misma mascota compiten y gana el último.
type Service struct {
	remote RemoteStore
	blobs  blob.Store
	cache  cache.Store
	log    logger.Logger

	validate *validator.Validate
	tracer   trace.Tracer
	now      func() time.Time
}

func NewService(remote RemoteStore, blobs blob.Store, snapshots cache.Store, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		remote:   remote,
		blobs:    blobs,
		cache:    snapshots,
		log:      log.With(map[string]any{"component": "pets"}),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		tracer:   otel.Tracer("pet-tracker/pets"),
		now:      time.Now,
	}
}

func (s *Service) startSpan(ctx context.Context, name, userID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "pets."+name, trace.WithAttributes(attribute.String("user.id", userID)))
}

func requireUser(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrAuthRequired
	}
	return userID, nil
}

func (s *Service) checkInput(in any) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// ListPets devuelve las mascotas del usuario (read-through).
// El snapshot no expira por tiempo; solo lo cambian las escrituras.
func (s *Service) ListPets(ctx context.Context, userID string) ([]Pet, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	ctx, span := s.startSpan(ctx, "ListPets", userID)
	defer span.End()

	return readThrough(ctx, s, petsKey(userID), collectionPets, s.petsLoader(userID))
}

// GetPet busca la mascota dentro de la lista (misma ruta de cache que ListPets).
func (s *Service) GetPet(ctx context.Context, userID, petID string) (Pet, error) {
	items, err := s.ListPets(ctx, userID)
	if err != nil {
		return Pet{}, err
	}
	for _, p := range items {
		if p.ID == petID {
			return p, nil
		}
	}
	return Pet{}, ErrNotFound
}

// CreatePet sube la foto (si hay), crea el documento y refresca la cache.
// Si la subida falla no se crea el documento. Si la subida sale bien pero
// falla el documento, el blob queda huérfano (no hay rollback).
func (s *Service) CreatePet(ctx context.Context, userID string, in PetInput, photo *blob.Object) (Pet, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return Pet{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := s.checkInput(in); err != nil {
		return Pet{}, err
	}

	ctx, span := s.startSpan(ctx, "CreatePet", userID)
	defer span.End()

	var photoURL *string
	if photo != nil {
		u, err := s.uploadPhoto(ctx, userID, *photo)
		if err != nil {
			return Pet{}, err
		}
		photoURL = &u
	}

	created, err := s.remote.CreatePet(ctx, userID, in.document(photoURL))
	if err != nil {
		if photoURL != nil {
			s.log.Warn("pet document not created, photo left orphaned", map[string]any{
				"user_id":   userID,
				"photo_url": *photoURL,
			})
		}
		return Pet{}, fmt.Errorf("%w: %w", ErrRemoteWrite, err)
	}

	refreshAfterWrite(ctx, s, petsKey(userID), collectionPets, s.petsLoader(userID))
	return created, nil
}

// UpdatePet reemplaza el perfil de la mascota.
// Con foto nueva: borra la anterior (best-effort) y sube la nueva.
// Sin foto: conserva la referencia guardada.
func (s *Service) UpdatePet(ctx context.Context, userID, petID string, in PetInput, photo *blob.Object) (Pet, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return Pet{}, err
	}
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return Pet{}, ErrInvalidInput
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := s.checkInput(in); err != nil {
		return Pet{}, err
	}

	ctx, span := s.startSpan(ctx, "UpdatePet", userID)
	defer span.End()
	span.SetAttributes(attribute.String("pet.id", petID))

	// La referencia a la foto sale del documento guardado, no del caller.
	current, err := s.remote.GetPet(ctx, userID, petID)
	if err != nil {
		return Pet{}, fmt.Errorf("%w: %w", ErrRemoteRead, err)
	}

	photoURL := current.PhotoURL
	if photo != nil {
		if photoURL != nil {
			s.deletePhotoBestEffort(ctx, userID, *photoURL)
		}
		u, err := s.uploadPhoto(ctx, userID, *photo)
		if err != nil {
			return Pet{}, err
		}
		photoURL = &u
	}

	updated, err := s.remote.UpdatePet(ctx, userID, petID, in.document(photoURL))
	if err != nil {
		return Pet{}, fmt.Errorf("%w: %w", ErrRemoteWrite, err)
	}

	refreshAfterWrite(ctx, s, petsKey(userID), collectionPets, s.petsLoader(userID))
	return updated, nil
}

// DeletePet borra la foto (best-effort, solo si hay referencia), el documento
// y sus subcolecciones, y saca la mascota de la cache.
func (s *Service) DeletePet(ctx context.Context, userID, petID, photoRef string) (bool, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return false, err
	}
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return false, ErrInvalidInput
	}

	ctx, span := s.startSpan(ctx, "DeletePet", userID)
	defer span.End()
	span.SetAttributes(attribute.String("pet.id", petID))

	if ref := strings.TrimSpace(photoRef); ref != "" {
		s.deletePhotoBestEffort(ctx, userID, ref)
	}

	// Las keys hijas se calculan antes del borrado: después ya no se
	// pueden listar las medicaciones para llegar a sus administrations.
	staleKeys := s.childKeys(ctx, userID, petID)

	if err := s.remote.DeletePet(ctx, userID, petID); err != nil {
		return false, fmt.Errorf("%w: %w", ErrRemoteWrite, err)
	}

	refreshAfterWrite(ctx, s, petsKey(userID), collectionPets, s.petsLoader(userID))
	for _, k := range staleKeys {
		deleteSnapshot(ctx, s, k)
	}

	return true, nil
}

func (s *Service) petsLoader(userID string) func(context.Context) ([]Pet, error) {
	return func(ctx context.Context) ([]Pet, error) {
		return s.remote.ListPets(ctx, userID)
	}
}

// childKeys lista las keys de snapshot que cuelgan de una mascota.
func (s *Service) childKeys(ctx context.Context, userID, petID string) []string {
	keys := []string{
		childKey(collectionWeights, userID, petID),
		childKey(collectionFeedings, userID, petID),
		childKey(collectionMedications, userID, petID),
	}

	meds, err := s.remote.ListMedications(ctx, userID, petID)
	if err != nil {
		s.log.Warn("could not list medications for cache cleanup", map[string]any{
			"user_id": userID,
			"pet_id":  petID,
			"error":   err,
		})
		return keys
	}
	for _, m := range meds {
		keys = append(keys, administrationsKey(userID, petID, m.ID))
	}
	return keys
}

func (s *Service) uploadPhoto(ctx context.Context, userID string, photo blob.Object) (string, error) {
	if len(photo.Data) == 0 {
		return "", fmt.Errorf("%w: empty photo", ErrInvalidInput)
	}
	path := fmt.Sprintf("users/%s/pets/%s-%s", userID, strconv.FormatInt(s.now().UnixMilli(), 10), uuid.NewString())

	u, err := s.blobs.Upload(ctx, path, photo)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	return u, nil
}

func (s *Service) deletePhotoBestEffort(ctx context.Context, userID, ref string) {
	if err := s.blobs.Delete(ctx, ref); err != nil {
		observability.RecordBlobDeleteFailure()
		s.log.Warn("photo delete failed, ignoring", map[string]any{
			"user_id":   userID,
			"photo_url": ref,
			"error":     err,
		})
	}
}
