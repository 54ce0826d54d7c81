package pets

import "time"

// WeightUnit define las unidades de peso soportadas.
// @Enum kg, lbs
type WeightUnit string

const (
	WeightUnitKg  WeightUnit = "kg"
	WeightUnitLbs WeightUnit = "lbs"
)

// Pet representa el perfil básico de una mascota de un usuario.
// ID, CreatedAt y UpdatedAt los asigna el remote store.
type Pet struct {
	ID string `json:"id"`

	Name       string     `json:"name"`
	BirthDate  *time.Time `json:"birthDate"`
	Weight     float64    `json:"weight"`
	WeightUnit WeightUnit `json:"weightUnit"`

	// nil = sin foto
	PhotoURL *string `json:"photoURL"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PetInput son los campos editables de una mascota.
// Create y Update reciben el perfil completo (no PATCH).
type PetInput struct {
	Name       string     `validate:"required,min=1,max=50"`
	BirthDate  *time.Time `validate:"omitempty"`
	Weight     float64    `validate:"gt=0,lte=1000"`
	WeightUnit WeightUnit `validate:"required,oneof=kg lbs"`
}

// PetDocument es lo que se persiste en el remote store.
// No lleva timestamps: esos los pone el servidor.
type PetDocument struct {
	Name       string
	BirthDate  *time.Time
	Weight     float64
	WeightUnit WeightUnit
	PhotoURL   *string
}

func (in PetInput) document(photoURL *string) PetDocument {
	return PetDocument{
		Name:       in.Name,
		BirthDate:  in.BirthDate,
		Weight:     in.Weight,
		WeightUnit: in.WeightUnit,
		PhotoURL:   photoURL,
	}
}
