package pets

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// Las entradas (weights, feedings, medications, administrations) siguen el
// mismo patrón que las mascotas: una key de snapshot por padre, lectura
// read-through y refresco completo de esa key después de cada escritura.

func requireIDs(ids ...string) error {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return ErrInvalidInput
		}
	}
	return nil
}

// -------------------------
// Weights
// -------------------------

func (s *Service) ListWeightEntries(ctx context.Context, userID, petID string) ([]WeightEntry, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	if err := requireIDs(petID); err != nil {
		return nil, err
	}
	ctx, span := s.startSpan(ctx, "ListWeightEntries", userID)
	defer span.End()

	return readThrough(ctx, s, childKey(collectionWeights, userID, petID), collectionWeights, s.weightsLoader(userID, petID))
}

func (s *Service) AddWeightEntry(ctx context.Context, userID, petID string, in WeightInput) (WeightEntry, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return WeightEntry{}, err
	}
	if err := requireIDs(petID); err != nil {
		return WeightEntry{}, err
	}
	if err := s.checkInput(in); err != nil {
		return WeightEntry{}, err
	}
	ctx, span := s.startSpan(ctx, "AddWeightEntry", userID)
	defer span.End()
	span.SetAttributes(attribute.String("pet.id", petID))

	e, err := s.remote.AddWeight(ctx, userID, petID, in)
	if err != nil {
		return WeightEntry{}, fmt.Errorf("%w: %w", ErrRemoteWrite, err)
	}

	refreshAfterWrite(ctx, s, childKey(collectionWeights, userID, petID), collectionWeights, s.weightsLoader(userID, petID))
	return e, nil
}

func (s *Service) weightsLoader(userID, petID string) func(context.Context) ([]WeightEntry, error) {
	return func(ctx context.Context) ([]WeightEntry, error) {
		return s.remote.ListWeights(ctx, userID, petID)
	}
}

// -------------------------
// Feedings
// -------------------------

func (s *Service) ListFeedings(ctx context.Context, userID, petID string) ([]FeedingEntry, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	if err := requireIDs(petID); err != nil {
		return nil, err
	}
	ctx, span := s.startSpan(ctx, "ListFeedings", userID)
	defer span.End()

	return readThrough(ctx, s, childKey(collectionFeedings, userID, petID), collectionFeedings, s.feedingsLoader(userID, petID))
}

// AddFeeding crea la toma siempre como no completada.
func (s *Service) AddFeeding(ctx context.Context, userID, petID string, in FeedingInput) (FeedingEntry, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return FeedingEntry{}, err
	}
	if err := requireIDs(petID); err != nil {
		return FeedingEntry{}, err
	}
	in.FoodType = strings.TrimSpace(in.FoodType)
	if err := s.checkInput(in); err != nil {
		return FeedingEntry{}, err
	}
	ctx, span := s.startSpan(ctx, "AddFeeding", userID)
	defer span.End()
	span.SetAttributes(attribute.String("pet.id", petID))

	e, err := s.remote.AddFeeding(ctx, userID, petID, in)
	if err != nil {
		return FeedingEntry{}, fmt.Errorf("%w: %w", ErrRemoteWrite, err)
	}

	refreshAfterWrite(ctx, s, childKey(collectionFeedings, userID, petID), collectionFeedings, s.feedingsLoader(userID, petID))
	return e, nil
}

// MarkFeedingComplete marca (o desmarca) la toma.
// completed=true => completedAt con timestamp del servidor; false => completedAt nil.
func (s *Service) MarkFeedingComplete(ctx context.Context, userID, petID, feedingID string, completed bool) (FeedingEntry, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return FeedingEntry{}, err
	}
	if err := requireIDs(petID, feedingID); err != nil {
		return FeedingEntry{}, err
	}
	ctx, span := s.startSpan(ctx, "MarkFeedingComplete", userID)
	defer span.End()
	span.SetAttributes(
		attribute.String("pet.id", petID),
		attribute.String("feeding.id", feedingID),
		attribute.Bool("feeding.completed", completed),
	)

	e, err := s.remote.SetFeedingCompleted(ctx, userID, petID, feedingID, completed)
	if err != nil {
		return FeedingEntry{}, fmt.Errorf("%w: %w", ErrRemoteWrite, err)
	}

	refreshAfterWrite(ctx, s, childKey(collectionFeedings, userID, petID), collectionFeedings, s.feedingsLoader(userID, petID))
	return e, nil
}

func (s *Service) feedingsLoader(userID, petID string) func(context.Context) ([]FeedingEntry, error) {
	return func(ctx context.Context) ([]FeedingEntry, error) {
		return s.remote.ListFeedings(ctx, userID, petID)
	}
}

// -------------------------
// Medications
// -------------------------

func (s *Service) ListMedications(ctx context.Context, userID, petID string) ([]MedicationEntry, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	if err := requireIDs(petID); err != nil {
		return nil, err
	}
	ctx, span := s.startSpan(ctx, "ListMedications", userID)
	defer span.End()

	return readThrough(ctx, s, childKey(collectionMedications, userID, petID), collectionMedications, s.medicationsLoader(userID, petID))
}

func (s *Service) AddMedication(ctx context.Context, userID, petID string, in MedicationInput) (MedicationEntry, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return MedicationEntry{}, err
	}
	if err := requireIDs(petID); err != nil {
		return MedicationEntry{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Dosage = strings.TrimSpace(in.Dosage)
	in.CustomFrequency = strings.TrimSpace(in.CustomFrequency)
	if err := s.checkInput(in); err != nil {
		return MedicationEntry{}, err
	}
	// Custom exige detalle; el resto lo ignora.
	if in.Frequency == FrequencyCustom && len(in.CustomFrequency) < 2 {
		return MedicationEntry{}, fmt.Errorf("%w: custom frequency required", ErrInvalidInput)
	}
	if in.Frequency != FrequencyCustom {
		in.CustomFrequency = ""
	}

	ctx, span := s.startSpan(ctx, "AddMedication", userID)
	defer span.End()
	span.SetAttributes(attribute.String("pet.id", petID))

	e, err := s.remote.AddMedication(ctx, userID, petID, in)
	if err != nil {
		return MedicationEntry{}, fmt.Errorf("%w: %w", ErrRemoteWrite, err)
	}

	refreshAfterWrite(ctx, s, childKey(collectionMedications, userID, petID), collectionMedications, s.medicationsLoader(userID, petID))
	return e, nil
}

func (s *Service) medicationsLoader(userID, petID string) func(context.Context) ([]MedicationEntry, error) {
	return func(ctx context.Context) ([]MedicationEntry, error) {
		return s.remote.ListMedications(ctx, userID, petID)
	}
}

// -------------------------
// Administrations (log de dosis)
// -------------------------

func (s *Service) ListAdministrations(ctx context.Context, userID, petID, medicationID string) ([]Administration, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	if err := requireIDs(petID, medicationID); err != nil {
		return nil, err
	}
	ctx, span := s.startSpan(ctx, "ListAdministrations", userID)
	defer span.End()

	return readThrough(ctx, s, administrationsKey(userID, petID, medicationID), collectionAdministrations, s.administrationsLoader(userID, petID, medicationID))
}

// LogAdministration registra una dosis dada; el timestamp lo pone el servidor.
func (s *Service) LogAdministration(ctx context.Context, userID, petID, medicationID string, in AdministrationInput) (Administration, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return Administration{}, err
	}
	if err := requireIDs(petID, medicationID); err != nil {
		return Administration{}, err
	}
	in.Notes = strings.TrimSpace(in.Notes)
	in.AdministeredBy = strings.TrimSpace(in.AdministeredBy)
	if err := s.checkInput(in); err != nil {
		return Administration{}, err
	}
	ctx, span := s.startSpan(ctx, "LogAdministration", userID)
	defer span.End()
	span.SetAttributes(
		attribute.String("pet.id", petID),
		attribute.String("medication.id", medicationID),
	)

	a, err := s.remote.AddAdministration(ctx, userID, petID, medicationID, in)
	if err != nil {
		return Administration{}, fmt.Errorf("%w: %w", ErrRemoteWrite, err)
	}

	refreshAfterWrite(ctx, s, administrationsKey(userID, petID, medicationID), collectionAdministrations, s.administrationsLoader(userID, petID, medicationID))
	return a, nil
}

func (s *Service) administrationsLoader(userID, petID, medicationID string) func(context.Context) ([]Administration, error) {
	return func(ctx context.Context) ([]Administration, error) {
		return s.remote.ListAdministrations(ctx, userID, petID, medicationID)
	}
}
