package postgres

import (
	"context"
	"database/sql"

	"pet-tracker/internal/domain/pets"

	"github.com/google/uuid"
)

// Las escrituras de entradas usan INSERT ... SELECT FROM pets para que
// una mascota ajena o inexistente no inserte nada (=> ErrNotFound).

// -------------------------
// Weights
// -------------------------

func (r *RemoteStore) ListWeights(ctx context.Context, userID, petID string) ([]pets.WeightEntry, error) {
	if err := r.ensurePet(ctx, userID, petID); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, value, unit, date, created_at
		FROM pet_weights
		WHERE user_id = $1 AND pet_id = $2
		ORDER BY created_at ASC, id ASC
	`, userID, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.WeightEntry, 0)
	for rows.Next() {
		e, err := scanWeight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *RemoteStore) AddWeight(ctx context.Context, userID, petID string, in pets.WeightInput) (pets.WeightEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO pet_weights (id, pet_id, user_id, value, unit, date)
		SELECT $3, p.id, p.user_id, $4, $5, $6
		FROM pets p
		WHERE p.user_id = $1 AND p.id = $2
		RETURNING id, pet_id, value, unit, date, created_at
	`, userID, petID, uuid.NewString(), in.Value, string(in.Unit), in.Date)

	e, err := scanWeight(row)
	if err != nil {
		return pets.WeightEntry{}, notFound(err, "pet", petID)
	}
	return e, nil
}

func scanWeight(s scanner) (pets.WeightEntry, error) {
	var (
		e    pets.WeightEntry
		unit string
	)
	if err := s.Scan(&e.ID, &e.PetID, &e.Value, &unit, &e.Date, &e.CreatedAt); err != nil {
		return pets.WeightEntry{}, err
	}
	e.Unit = pets.WeightUnit(unit)
	return e, nil
}

// -------------------------
// Feedings
// -------------------------

const feedingColumns = `id, pet_id, food_type, quantity, unit, time_of_day, completed, completed_at, created_at`

func (r *RemoteStore) ListFeedings(ctx context.Context, userID, petID string) ([]pets.FeedingEntry, error) {
	if err := r.ensurePet(ctx, userID, petID); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+feedingColumns+`
		FROM pet_feedings
		WHERE user_id = $1 AND pet_id = $2
		ORDER BY created_at ASC, id ASC
	`, userID, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.FeedingEntry, 0)
	for rows.Next() {
		e, err := scanFeeding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *RemoteStore) AddFeeding(ctx context.Context, userID, petID string, in pets.FeedingInput) (pets.FeedingEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO pet_feedings (id, pet_id, user_id, food_type, quantity, unit, time_of_day)
		SELECT $3, p.id, p.user_id, $4, $5, $6, $7
		FROM pets p
		WHERE p.user_id = $1 AND p.id = $2
		RETURNING `+feedingColumns,
		userID, petID, uuid.NewString(), in.FoodType, in.Quantity, string(in.Unit), in.Time)

	e, err := scanFeeding(row)
	if err != nil {
		return pets.FeedingEntry{}, notFound(err, "pet", petID)
	}
	return e, nil
}

func (r *RemoteStore) SetFeedingCompleted(ctx context.Context, userID, petID, feedingID string, completed bool) (pets.FeedingEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE pet_feedings
		SET
			completed = $4,
			completed_at = CASE WHEN $4 THEN now() ELSE NULL END
		WHERE user_id = $1 AND pet_id = $2 AND id = $3
		RETURNING `+feedingColumns,
		userID, petID, feedingID, completed)

	e, err := scanFeeding(row)
	if err != nil {
		return pets.FeedingEntry{}, notFound(err, "feeding", feedingID)
	}
	return e, nil
}

func scanFeeding(s scanner) (pets.FeedingEntry, error) {
	var (
		e    pets.FeedingEntry
		unit string
		at   sql.NullTime
	)
	if err := s.Scan(&e.ID, &e.PetID, &e.FoodType, &e.Quantity, &unit, &e.Time, &e.Completed, &at, &e.CreatedAt); err != nil {
		return pets.FeedingEntry{}, err
	}
	e.Unit = pets.FoodUnit(unit)
	if at.Valid {
		t := at.Time
		e.CompletedAt = &t
	}
	return e, nil
}

// -------------------------
// Medications
// -------------------------

const medicationColumns = `id, pet_id, name, dosage, frequency, custom_frequency, time_of_day, created_at`

func (r *RemoteStore) ListMedications(ctx context.Context, userID, petID string) ([]pets.MedicationEntry, error) {
	if err := r.ensurePet(ctx, userID, petID); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+medicationColumns+`
		FROM pet_medications
		WHERE user_id = $1 AND pet_id = $2
		ORDER BY created_at ASC, id ASC
	`, userID, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.MedicationEntry, 0)
	for rows.Next() {
		e, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *RemoteStore) AddMedication(ctx context.Context, userID, petID string, in pets.MedicationInput) (pets.MedicationEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO pet_medications (id, pet_id, user_id, name, dosage, frequency, custom_frequency, time_of_day)
		SELECT $3, p.id, p.user_id, $4, $5, $6, $7, $8
		FROM pets p
		WHERE p.user_id = $1 AND p.id = $2
		RETURNING `+medicationColumns,
		userID, petID, uuid.NewString(), in.Name, in.Dosage, string(in.Frequency), in.CustomFrequency, in.Time)

	e, err := scanMedication(row)
	if err != nil {
		return pets.MedicationEntry{}, notFound(err, "pet", petID)
	}
	return e, nil
}

func scanMedication(s scanner) (pets.MedicationEntry, error) {
	var (
		e    pets.MedicationEntry
		freq string
	)
	if err := s.Scan(&e.ID, &e.PetID, &e.Name, &e.Dosage, &freq, &e.CustomFrequency, &e.Time, &e.CreatedAt); err != nil {
		return pets.MedicationEntry{}, err
	}
	e.Frequency = pets.Frequency(freq)
	return e, nil
}

// -------------------------
// Administrations
// -------------------------

func (r *RemoteStore) ensureMedication(ctx context.Context, userID, petID, medicationID string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM pet_medications
		WHERE user_id = $1 AND pet_id = $2 AND id = $3
	`, userID, petID, medicationID).Scan(&one)
	return notFound(err, "medication", medicationID)
}

func (r *RemoteStore) ListAdministrations(ctx context.Context, userID, petID, medicationID string) ([]pets.Administration, error) {
	if err := r.ensureMedication(ctx, userID, petID, medicationID); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, medication_id, notes, administered_by, administered_at
		FROM medication_administrations
		WHERE user_id = $1 AND medication_id = $2
		ORDER BY administered_at ASC, id ASC
	`, userID, medicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Administration, 0)
	for rows.Next() {
		var a pets.Administration
		if err := rows.Scan(&a.ID, &a.MedicationID, &a.Notes, &a.AdministeredBy, &a.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *RemoteStore) AddAdministration(ctx context.Context, userID, petID, medicationID string, in pets.AdministrationInput) (pets.Administration, error) {
	var a pets.Administration
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO medication_administrations (id, medication_id, user_id, notes, administered_by)
		SELECT $4, m.id, m.user_id, $5, $6
		FROM pet_medications m
		WHERE m.user_id = $1 AND m.pet_id = $2 AND m.id = $3
		RETURNING id, medication_id, notes, administered_by, administered_at
	`, userID, petID, medicationID, uuid.NewString(), in.Notes, in.AdministeredBy).
		Scan(&a.ID, &a.MedicationID, &a.Notes, &a.AdministeredBy, &a.Timestamp)
	if err != nil {
		return pets.Administration{}, notFound(err, "medication", medicationID)
	}
	return a, nil
}
