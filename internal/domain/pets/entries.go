package pets

import "time"

// WeightEntry es una medición de peso de la mascota.
type WeightEntry struct {
	ID    string     `json:"id"`
	PetID string     `json:"petId"`
	Value float64    `json:"value"`
	Unit  WeightUnit `json:"unit"`
	Date  time.Time  `json:"date"`

	CreatedAt time.Time `json:"createdAt"`
}

type WeightInput struct {
	Value float64    `validate:"gt=0,lte=1000"`
	Unit  WeightUnit `validate:"required,oneof=kg lbs"`
	Date  time.Time  `validate:"required"`
}

// FoodUnit define las unidades de ración.
// @Enum grams, cups, oz
type FoodUnit string

const (
	FoodUnitGrams FoodUnit = "grams"
	FoodUnitCups  FoodUnit = "cups"
	FoodUnitOz    FoodUnit = "oz"
)

// FeedingEntry es una toma programada. Time es la hora del día (HH:MM).
type FeedingEntry struct {
	ID       string   `json:"id"`
	PetID    string   `json:"petId"`
	FoodType string   `json:"foodType"`
	Quantity float64  `json:"quantity"`
	Unit     FoodUnit `json:"unit"`
	Time     string   `json:"time"`

	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`

	CreatedAt time.Time `json:"createdAt"`
}

type FeedingInput struct {
	FoodType string   `validate:"required,min=2,max=100"`
	Quantity float64  `validate:"gt=0,lte=1000"`
	Unit     FoodUnit `validate:"required,oneof=grams cups oz"`
	Time     string   `validate:"required,datetime=15:04"`
}

// Frequency define con qué periodicidad se da una medicación.
// @Enum Daily, Weekly, Custom
type Frequency string

const (
	FrequencyDaily  Frequency = "Daily"
	FrequencyWeekly Frequency = "Weekly"
	FrequencyCustom Frequency = "Custom"
)

// MedicationEntry es una medicación activa de la mascota.
type MedicationEntry struct {
	ID              string    `json:"id"`
	PetID           string    `json:"petId"`
	Name            string    `json:"name"`
	Dosage          string    `json:"dosage"`
	Frequency       Frequency `json:"frequency"`
	CustomFrequency string    `json:"customFrequency"`
	Time            string    `json:"time"`

	CreatedAt time.Time `json:"createdAt"`
}

type MedicationInput struct {
	Name            string    `validate:"required,min=2,max=50"`
	Dosage          string    `validate:"required,min=2,max=50"`
	Frequency       Frequency `validate:"required,oneof=Daily Weekly Custom"`
	CustomFrequency string    `validate:"max=50"`
	Time            string    `validate:"required,datetime=15:04"`
}

// Administration es una entrada del log de dosis dadas de una medicación.
type Administration struct {
	ID             string    `json:"id"`
	MedicationID   string    `json:"medicationId"`
	Notes          string    `json:"notes"`
	AdministeredBy string    `json:"administeredBy"`
	Timestamp      time.Time `json:"timestamp"`
}

type AdministrationInput struct {
	Notes          string `validate:"max=500"`
	AdministeredBy string `validate:"max=100"`
}
