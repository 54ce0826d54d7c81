package pets

import (
	"context"
	"errors"
	"testing"
)

func newPetFixture(t *testing.T) (fixture, Pet) {
	t.Helper()
	f := newFixture()
	p, err := f.svc.CreatePet(context.Background(), "u1", rexInput(), nil)
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}
	return f, p
}

func TestService_MarkFeedingComplete_SetsAndClearsTimestamp(t *testing.T) {
	f, p := newPetFixture(t)
	ctx := context.Background()

	e, err := f.svc.AddFeeding(ctx, "u1", p.ID, FeedingInput{FoodType: "Kibble", Quantity: 100, Unit: FoodUnitGrams, Time: "08:00"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if e.Completed || e.CompletedAt != nil {
		t.Fatalf("new feeding must be pending")
	}

	done, err := f.svc.MarkFeedingComplete(ctx, "u1", p.ID, e.ID, true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !done.Completed || done.CompletedAt == nil {
		t.Fatalf("expected completed with timestamp, got %+v", done)
	}

	undone, err := f.svc.MarkFeedingComplete(ctx, "u1", p.ID, e.ID, false)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if undone.Completed || undone.CompletedAt != nil {
		t.Fatalf("expected pending without timestamp, got %+v", undone)
	}

	// el snapshot refleja el último estado
	list, err := f.svc.ListFeedings(ctx, "u1", p.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(list) != 1 || list[0].Completed {
		t.Fatalf("expected one pending feeding, got %+v", list)
	}
}

func TestService_MarkFeedingComplete_NotFound(t *testing.T) {
	f, p := newPetFixture(t)

	_, err := f.svc.MarkFeedingComplete(context.Background(), "u1", p.ID, "nope", true)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_AddFeeding_Validation(t *testing.T) {
	f, p := newPetFixture(t)

	tests := []struct {
		name string
		in   FeedingInput
	}{
		{"short food type", FeedingInput{FoodType: "K", Quantity: 10, Unit: FoodUnitGrams, Time: "08:00"}},
		{"zero quantity", FeedingInput{FoodType: "Kibble", Quantity: 0, Unit: FoodUnitGrams, Time: "08:00"}},
		{"too much", FeedingInput{FoodType: "Kibble", Quantity: 1001, Unit: FoodUnitGrams, Time: "08:00"}},
		{"bad unit", FeedingInput{FoodType: "Kibble", Quantity: 10, Unit: "kg", Time: "08:00"}},
		{"bad time", FeedingInput{FoodType: "Kibble", Quantity: 10, Unit: FoodUnitCups, Time: "8am"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddFeeding(context.Background(), "u1", p.ID, tt.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestService_Weights_ReadThroughAndRefresh(t *testing.T) {
	f, p := newPetFixture(t)
	ctx := context.Background()

	list, err := f.svc.ListWeightEntries(ctx, "u1", p.ID)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty history, got %v err=%v", list, err)
	}
	reads := f.remote.count("ListWeights")

	if _, err := f.svc.AddWeightEntry(ctx, "u1", p.ID, WeightInput{Value: 12.2, Unit: WeightUnitKg, Date: f.remote.now}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f.remote.count("ListWeights") != reads+1 {
		t.Fatalf("expected one re-read after write")
	}

	list, err = f.svc.ListWeightEntries(ctx, "u1", p.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(list) != 1 || list[0].Value != 12.2 {
		t.Fatalf("expected refreshed snapshot, got %+v", list)
	}
	if f.remote.count("ListWeights") != reads+1 {
		t.Fatalf("list after write must be a cache hit")
	}
}

func TestService_AddWeight_UnknownPet(t *testing.T) {
	f := newFixture()

	_, err := f.svc.AddWeightEntry(context.Background(), "u1", "ghost", WeightInput{Value: 1, Unit: WeightUnitKg, Date: f.remote.now})
	if !errors.Is(err, ErrNotFound) || !errors.Is(err, ErrRemoteWrite) {
		t.Fatalf("expected ErrRemoteWrite wrapping ErrNotFound, got %v", err)
	}
}

func TestService_AddMedication_Frequency(t *testing.T) {
	f, p := newPetFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddMedication(ctx, "u1", p.ID, MedicationInput{Name: "Drops", Dosage: "2 drops", Frequency: FrequencyCustom, Time: "21:00"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for Custom without detail, got %v", err)
	}

	m, err := f.svc.AddMedication(ctx, "u1", p.ID, MedicationInput{
		Name: " Drops ", Dosage: "2 drops", Frequency: FrequencyCustom, CustomFrequency: "every 3 days", Time: "21:00",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m.Name != "Drops" || m.CustomFrequency != "every 3 days" {
		t.Fatalf("unexpected medication: %+v", m)
	}

	daily, err := f.svc.AddMedication(ctx, "u1", p.ID, MedicationInput{
		Name: "Pill", Dosage: "1 tab", Frequency: FrequencyDaily, CustomFrequency: "ignored", Time: "08:00",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if daily.CustomFrequency != "" {
		t.Fatalf("custom frequency must be cleared for Daily, got %q", daily.CustomFrequency)
	}

	list, err := f.svc.ListMedications(ctx, "u1", p.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("expected 2 medications, got %v err=%v", list, err)
	}
}

func TestService_LogAdministration(t *testing.T) {
	f, p := newPetFixture(t)
	ctx := context.Background()

	m, _ := f.svc.AddMedication(ctx, "u1", p.ID, MedicationInput{Name: "Pill", Dosage: "1 tab", Frequency: FrequencyWeekly, Time: "08:00"})

	a, err := f.svc.LogAdministration(ctx, "u1", p.ID, m.ID, AdministrationInput{Notes: "  with food  ", AdministeredBy: "ana"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.Timestamp.IsZero() || a.MedicationID != m.ID || a.Notes != "with food" {
		t.Fatalf("unexpected administration: %+v", a)
	}

	list, err := f.svc.ListAdministrations(ctx, "u1", p.ID, m.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 administration, got %v err=%v", list, err)
	}
}

func TestService_Entries_RequireIDs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.ListWeightEntries(ctx, "u1", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := f.svc.MarkFeedingComplete(ctx, "u1", "p1", " ", true); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := f.svc.ListAdministrations(ctx, "", "p1", "m1"); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
}
