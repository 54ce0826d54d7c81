package pets

import "context"

// RemoteStore es el document store autoritativo, organizado por usuario:
// users/{userID}/pets/{petID}/{weights|feedings|medications}/...
//
// Las escrituras devuelven el registro tal como quedó en el servidor
// (id y timestamps asignados por el store). Si la mascota o la entrada
// no existe, los adapters devuelven un error que envuelve ErrNotFound.
type RemoteStore interface {
	ListPets(ctx context.Context, userID string) ([]Pet, error)
	GetPet(ctx context.Context, userID, petID string) (Pet, error)
	CreatePet(ctx context.Context, userID string, doc PetDocument) (Pet, error)
	UpdatePet(ctx context.Context, userID, petID string, doc PetDocument) (Pet, error)
	// DeletePet borra la mascota y en cascada sus weights, feedings,
	// medications y administrations.
	DeletePet(ctx context.Context, userID, petID string) error

	ListWeights(ctx context.Context, userID, petID string) ([]WeightEntry, error)
	AddWeight(ctx context.Context, userID, petID string, in WeightInput) (WeightEntry, error)

	ListFeedings(ctx context.Context, userID, petID string) ([]FeedingEntry, error)
	AddFeeding(ctx context.Context, userID, petID string, in FeedingInput) (FeedingEntry, error)
	// SetFeedingCompleted pone completedAt = now() del servidor si completed, o null si no.
	SetFeedingCompleted(ctx context.Context, userID, petID, feedingID string, completed bool) (FeedingEntry, error)

	ListMedications(ctx context.Context, userID, petID string) ([]MedicationEntry, error)
	AddMedication(ctx context.Context, userID, petID string, in MedicationInput) (MedicationEntry, error)

	ListAdministrations(ctx context.Context, userID, petID, medicationID string) ([]Administration, error)
	AddAdministration(ctx context.Context, userID, petID, medicationID string, in AdministrationInput) (Administration, error)
}
