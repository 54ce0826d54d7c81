package pets

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func registerEntryRoutes(r chi.Router, svc *Service) {
	r.Get("/weights", listWeightsHandler(svc))
	r.Post("/weights", addWeightHandler(svc))

	r.Get("/feedings", listFeedingsHandler(svc))
	r.Post("/feedings", addFeedingHandler(svc))
	r.Post("/feedings/{feedingID}/complete", completeFeedingHandler(svc))

	r.Get("/medications", listMedicationsHandler(svc))
	r.Post("/medications", addMedicationHandler(svc))

	r.Get("/medications/{medID}/administrations", listAdministrationsHandler(svc))
	r.Post("/medications/{medID}/administrations", logAdministrationHandler(svc))
}

type weightRequest struct {
	Value float64    `json:"value"`
	Unit  WeightUnit `json:"unit"`
	Date  string     `json:"date"` // RFC3339 o YYYY-MM-DD; vacío = ahora
}

type feedingRequest struct {
	FoodType string   `json:"foodType"`
	Quantity float64  `json:"quantity"`
	Unit     FoodUnit `json:"unit"`
	Time     string   `json:"time"` // HH:MM
}

type completeFeedingRequest struct {
	Completed bool `json:"completed"`
}

type medicationRequest struct {
	Name            string    `json:"name"`
	Dosage          string    `json:"dosage"`
	Frequency       Frequency `json:"frequency"`
	CustomFrequency string    `json:"customFrequency"`
	Time            string    `json:"time"` // HH:MM
}

type administrationRequest struct {
	Notes          string `json:"notes"`
	AdministeredBy string `json:"administeredBy"`
}

// -------------------------
// Weights
// -------------------------

// @Summary Historial de peso
// @Tags weights
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} WeightEntry
// @Failure 401 {string} string "unauthorized"
// @Router /pets/{petID}/weights [get]
func listWeightsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListWeightEntries(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// @Summary Registrar peso
// @Tags weights
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body weightRequest true "Medición"
// @Success 201 {object} WeightEntry
// @Failure 400 {string} string "invalid json / validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/weights [post]
func addWeightHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireSession(w, r)
		if !ok {
			return
		}
		var req weightRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		date, err := parseEntryDate(req.Date, svc.now)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		e, err := svc.AddWeightEntry(r.Context(), uid, chi.URLParam(r, "petID"), WeightInput{
			Value: req.Value,
			Unit:  req.Unit,
			Date:  date,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

// -------------------------
// Feedings
// -------------------------

// @Summary Listar tomas de comida
// @Tags feedings
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} FeedingEntry
// @Failure 401 {string} string "unauthorized"
// @Router /pets/{petID}/feedings [get]
func listFeedingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListFeedings(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// @Summary Programar toma de comida
// @Tags feedings
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body feedingRequest true "Toma; time en HH:MM"
// @Success 201 {object} FeedingEntry
// @Failure 400 {string} string "invalid json / validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/feedings [post]
func addFeedingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireSession(w, r)
		if !ok {
			return
		}
		var req feedingRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		e, err := svc.AddFeeding(r.Context(), uid, chi.URLParam(r, "petID"), FeedingInput{
			FoodType: req.FoodType,
			Quantity: req.Quantity,
			Unit:     req.Unit,
			Time:     req.Time,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

// @Summary Marcar toma como completada
// @Description completed=true pone completedAt con la hora del servidor; false lo limpia.
// @Tags feedings
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param feedingID path string true "ID de la toma"
// @Param payload body completeFeedingRequest true "Estado"
// @Success 200 {object} FeedingEntry
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "feeding not found"
// @Router /pets/{petID}/feedings/{feedingID}/complete [post]
func completeFeedingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireSession(w, r)
		if !ok {
			return
		}
		var req completeFeedingRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		e, err := svc.MarkFeedingComplete(r.Context(), uid, chi.URLParam(r, "petID"), chi.URLParam(r, "feedingID"), req.Completed)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// -------------------------
// Medications
// -------------------------

// @Summary Listar medicaciones
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} MedicationEntry
// @Failure 401 {string} string "unauthorized"
// @Router /pets/{petID}/medications [get]
func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListMedications(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// @Summary Agregar medicación
// @Description frequency: Daily, Weekly o Custom (Custom exige customFrequency).
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body medicationRequest true "Medicación; time en HH:MM"
// @Success 201 {object} MedicationEntry
// @Failure 400 {string} string "invalid json / validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/medications [post]
func addMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireSession(w, r)
		if !ok {
			return
		}
		var req medicationRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		e, err := svc.AddMedication(r.Context(), uid, chi.URLParam(r, "petID"), MedicationInput{
			Name:            req.Name,
			Dosage:          req.Dosage,
			Frequency:       req.Frequency,
			CustomFrequency: req.CustomFrequency,
			Time:            req.Time,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

// @Summary Historial de dosis de una medicación
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param medID path string true "ID de la medicación"
// @Success 200 {array} Administration
// @Failure 401 {string} string "unauthorized"
// @Router /pets/{petID}/medications/{medID}/administrations [get]
func listAdministrationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAdministrations(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "petID"), chi.URLParam(r, "medID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// @Summary Registrar dosis dada
// @Description El timestamp lo pone el servidor.
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param medID path string true "ID de la medicación"
// @Param payload body administrationRequest true "Notas opcionales"
// @Success 201 {object} Administration
// @Failure 400 {string} string "invalid json / validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /pets/{petID}/medications/{medID}/administrations [post]
func logAdministrationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireSession(w, r)
		if !ok {
			return
		}
		var req administrationRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.AdministeredBy) == "" {
			if c, ok := middleware.GetClaims(r.Context()); ok && c.Email != "" {
				req.AdministeredBy = c.Email
			}
		}

		a, err := svc.LogAdministration(r.Context(), uid, chi.URLParam(r, "petID"), chi.URLParam(r, "medID"), AdministrationInput{
			Notes:          req.Notes,
			AdministeredBy: req.AdministeredBy,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)
	}
}

func parseEntryDate(s string, now func() time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("date must be RFC3339 or YYYY-MM-DD")
}
