package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-tracker/internal/domain/pets"

	"github.com/google/uuid"
)

// RemoteStore implementa pets.RemoteStore sobre Postgres.
// Los ids se generan acá; los timestamps los pone la base (now()).
type RemoteStore struct {
	db *sql.DB
}

func NewRemoteStore(db *sql.DB) *RemoteStore {
	return &RemoteStore{db: db}
}

var _ pets.RemoteStore = (*RemoteStore)(nil)

const petColumns = `id, name, birth_date, weight, weight_unit, photo_url, created_at, updated_at`

func (r *RemoteStore) ListPets(ctx context.Context, userID string) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *RemoteStore) GetPet(ctx context.Context, userID, petID string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE user_id = $1 AND id = $2
	`, userID, petID)

	p, err := scanPet(row)
	if err != nil {
		return pets.Pet{}, notFound(err, "pet", petID)
	}
	return p, nil
}

func (r *RemoteStore) CreatePet(ctx context.Context, userID string, in pets.PetDocument) (pets.Pet, error) {
	if strings.TrimSpace(userID) == "" {
		return pets.Pet{}, errors.New("user id required")
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO pets (id, user_id, name, birth_date, weight, weight_unit, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+petColumns,
		uuid.NewString(),
		userID,
		in.Name,
		toNullDate(in.BirthDate),
		in.Weight,
		string(in.WeightUnit),
		toNullString(in.PhotoURL),
	)
	return scanPet(row)
}

func (r *RemoteStore) UpdatePet(ctx context.Context, userID, petID string, in pets.PetDocument) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE pets
		SET
			name = $3,
			birth_date = $4,
			weight = $5,
			weight_unit = $6,
			photo_url = $7,
			updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+petColumns,
		userID,
		petID,
		in.Name,
		toNullDate(in.BirthDate),
		in.Weight,
		string(in.WeightUnit),
		toNullString(in.PhotoURL),
	)

	p, err := scanPet(row)
	if err != nil {
		return pets.Pet{}, notFound(err, "pet", petID)
	}
	return p, nil
}

// DeletePet: las subcolecciones se van por ON DELETE CASCADE.
func (r *RemoteStore) DeletePet(ctx context.Context, userID, petID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE user_id = $1 AND id = $2`, userID, petID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("pet %s: %w", petID, pets.ErrNotFound)
	}
	return nil
}

// ensurePet devuelve ErrNotFound si la mascota no es del usuario.
func (r *RemoteStore) ensurePet(ctx context.Context, userID, petID string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM pets WHERE user_id = $1 AND id = $2`, userID, petID).Scan(&one)
	return notFound(err, "pet", petID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(s scanner) (pets.Pet, error) {
	var (
		p     pets.Pet
		bd    sql.NullTime
		photo sql.NullString
		unit  string
	)
	if err := s.Scan(&p.ID, &p.Name, &bd, &p.Weight, &unit, &photo, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return pets.Pet{}, err
	}
	p.WeightUnit = pets.WeightUnit(unit)
	if bd.Valid {
		// birth_date es DATE: pgx lo devuelve a medianoche UTC
		t := bd.Time
		p.BirthDate = &t
	}
	if photo.Valid {
		u := photo.String
		p.PhotoURL = &u
	}
	return p, nil
}

// notFound traduce sql.ErrNoRows a pets.ErrNotFound; el resto pasa igual.
func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, pets.ErrNotFound)
	}
	return err
}

// birth_date es DATE, lo pasamos como NullTime para simplificar
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
