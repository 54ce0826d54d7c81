package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-tracker/internal/domain/pets"
)

func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestRemoteStore_ListKeepsInsertionOrder(t *testing.T) {
	r := newRemoteStore(fixedClock())
	ctx := context.Background()

	for _, name := range []string{"Rex", "Luna", "Toby"} {
		if _, err := r.CreatePet(ctx, "u1", pets.PetDocument{Name: name, Weight: 5, WeightUnit: pets.WeightUnitKg}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	list, err := r.ListPets(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(list) != 3 || list[0].Name != "Rex" || list[2].Name != "Toby" {
		t.Fatalf("unexpected order: %+v", list)
	}

	other, _ := r.ListPets(ctx, "u2")
	if len(other) != 0 {
		t.Fatalf("u2 must not see u1 pets")
	}
}

func TestRemoteStore_DeleteCascades(t *testing.T) {
	r := newRemoteStore(fixedClock())
	ctx := context.Background()

	p, _ := r.CreatePet(ctx, "u1", pets.PetDocument{Name: "Rex", Weight: 12, WeightUnit: pets.WeightUnitKg})
	if _, err := r.AddWeight(ctx, "u1", p.ID, pets.WeightInput{Value: 12, Unit: pets.WeightUnitKg, Date: time.Now()}); err != nil {
		t.Fatalf("add weight: %v", err)
	}
	m, err := r.AddMedication(ctx, "u1", p.ID, pets.MedicationInput{Name: "Pill", Dosage: "1 tab", Frequency: pets.FrequencyDaily, Time: "08:00"})
	if err != nil {
		t.Fatalf("add medication: %v", err)
	}
	if _, err := r.AddAdministration(ctx, "u1", p.ID, m.ID, pets.AdministrationInput{}); err != nil {
		t.Fatalf("add administration: %v", err)
	}

	if err := r.DeletePet(ctx, "u1", p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := r.ListWeights(ctx, "u1", p.ID); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for weights, got %v", err)
	}
	if _, err := r.ListAdministrations(ctx, "u1", p.ID, m.ID); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for administrations, got %v", err)
	}
	if err := r.DeletePet(ctx, "u1", p.ID); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestRemoteStore_FeedingCompletion(t *testing.T) {
	clock := fixedClock()
	r := newRemoteStore(clock)
	ctx := context.Background()

	p, _ := r.CreatePet(ctx, "u1", pets.PetDocument{Name: "Rex", Weight: 12, WeightUnit: pets.WeightUnitKg})
	f, err := r.AddFeeding(ctx, "u1", p.ID, pets.FeedingInput{FoodType: "Kibble", Quantity: 100, Unit: pets.FoodUnitGrams, Time: "08:00"})
	if err != nil {
		t.Fatalf("add feeding: %v", err)
	}
	if f.Completed {
		t.Fatalf("new feeding must be pending")
	}

	done, err := r.SetFeedingCompleted(ctx, "u1", p.ID, f.ID, true)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.CompletedAt == nil || !done.CompletedAt.Equal(clock()) {
		t.Fatalf("expected server completion time, got %+v", done.CompletedAt)
	}

	// el valor devuelto no debe compartir memoria con el store
	*done.CompletedAt = time.Time{}
	list, _ := r.ListFeedings(ctx, "u1", p.ID)
	if list[0].CompletedAt == nil || list[0].CompletedAt.IsZero() {
		t.Fatalf("stored completion time was mutated through the returned entry")
	}

	undone, _ := r.SetFeedingCompleted(ctx, "u1", p.ID, f.ID, false)
	if undone.Completed || undone.CompletedAt != nil {
		t.Fatalf("expected cleared completion, got %+v", undone)
	}
}

func TestRemoteStore_OtherUserCannotWrite(t *testing.T) {
	r := newRemoteStore(fixedClock())
	ctx := context.Background()

	p, _ := r.CreatePet(ctx, "u1", pets.PetDocument{Name: "Rex", Weight: 12, WeightUnit: pets.WeightUnitKg})

	if _, err := r.UpdatePet(ctx, "u2", p.ID, pets.PetDocument{Name: "Stolen"}); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.AddWeight(ctx, "u2", p.ID, pets.WeightInput{Value: 1, Unit: pets.WeightUnitKg, Date: time.Now()}); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
