package pets

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-tracker/internal/middleware"
	"pet-tracker/internal/ports/blob"

	"github.com/go-chi/chi/v5"
)

// Tamaño máximo del body JSON (incluye la foto en base64).
const maxBodyBytes = 8 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc))
		pr.Post("/", createPetHandler(svc))

		pr.Route("/{petID}", func(one chi.Router) {
			one.Get("/", getPetHandler(svc))
			one.Put("/", updatePetHandler(svc))
			one.Delete("/", deletePetHandler(svc))

			registerEntryRoutes(one, svc)
		})
	})
}

type petRequest struct {
	Name       string     `json:"name"`
	BirthDate  string     `json:"birthDate"` // YYYY-MM-DD opcional
	Weight     float64    `json:"weight"`
	WeightUnit WeightUnit `json:"weightUnit"`

	// Foto opcional en base64 (estándar). Si viene, photoContentType también.
	Photo            string `json:"photo,omitempty"`
	PhotoContentType string `json:"photoContentType,omitempty"`
}

type petResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	BirthDate  *string    `json:"birthDate"`
	Weight     float64    `json:"weight"`
	WeightUnit WeightUnit `json:"weightUnit"`
	PhotoURL   *string    `json:"photoURL"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type deletePetResponse struct {
	Deleted bool `json:"deleted"`
}

// @Summary Listar mascotas
// @Description Lista las mascotas del usuario autenticado. Se sirve desde la cache local si hay snapshot. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>`.
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} petResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {string} string "remote store error"
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListPets(r.Context(), middleware.UserID(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// @Summary Crear mascota
// @Description Crea una mascota. Si viene `photo` (base64) se sube primero; si la subida falla no se crea nada.
// @Tags pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body petRequest true "Perfil de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {string} string "invalid json / validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {string} string "upload o remote store error"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req petRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		in, photo, err := req.toInput()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		p, err := svc.CreatePet(r.Context(), uid, in, photo)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// @Summary Obtener mascota
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetPet(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// @Summary Actualizar mascota
// @Description Reemplaza el perfil completo. Si viene `photo`, la foto anterior se borra (best-effort) y se sube la nueva.
// @Tags pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body petRequest true "Perfil de la mascota"
// @Success 200 {object} petResponse
// @Failure 400 {string} string "invalid json / validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Failure 502 {string} string "upload o remote store error"
// @Router /pets/{petID} [put]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req petRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		in, photo, err := req.toInput()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		p, err := svc.UpdatePet(r.Context(), uid, chi.URLParam(r, "petID"), in, photo)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// @Summary Borrar mascota
// @Description Borra la foto (best-effort), la mascota y todas sus entradas.
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} deletePetResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Failure 502 {string} string "remote store error"
// @Router /pets/{petID} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := requireSession(w, r)
		if !ok {
			return
		}
		petID := chi.URLParam(r, "petID")

		// La referencia de la foto sale del perfil que ve el cliente.
		current, err := svc.GetPet(r.Context(), uid, petID)
		if err != nil {
			writeError(w, err)
			return
		}
		photoRef := ""
		if current.PhotoURL != nil {
			photoRef = *current.PhotoURL
		}

		deleted, err := svc.DeletePet(r.Context(), uid, petID, photoRef)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, deletePetResponse{Deleted: deleted})
	}
}

func (req petRequest) toInput() (PetInput, *blob.Object, error) {
	in := PetInput{
		Name:       req.Name,
		Weight:     req.Weight,
		WeightUnit: req.WeightUnit,
	}

	if s := strings.TrimSpace(req.BirthDate); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return PetInput{}, nil, errors.New("birthDate must be YYYY-MM-DD")
		}
		in.BirthDate = &t
	}

	if strings.TrimSpace(req.Photo) == "" {
		return in, nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(req.Photo)
	if err != nil {
		return PetInput{}, nil, errors.New("photo must be base64")
	}
	ct := strings.TrimSpace(req.PhotoContentType)
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return in, &blob.Object{ContentType: ct, Data: data}, nil
}

const dateLayout = "2006-01-02"

func toPetResponse(p Pet) petResponse {
	out := petResponse{
		ID:         p.ID,
		Name:       p.Name,
		Weight:     p.Weight,
		WeightUnit: p.WeightUnit,
		PhotoURL:   p.PhotoURL,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.BirthDate != nil {
		s := p.BirthDate.Format(dateLayout)
		out.BirthDate = &s
	}
	return out
}

// requireSession corta con 401 si no hay usuario en el contexto.
func requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid := middleware.UserID(r.Context())
	if uid == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return uid, true
}

// decodeJSON rechaza campos desconocidos y bodies gigantes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError traduce errores del servicio a status HTTP.
// ErrNotFound va antes que ErrRemoteWrite porque puede venir envuelto en él.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAuthRequired):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrUpload):
		http.Error(w, "photo upload failed", http.StatusBadGateway)
	case errors.Is(err, ErrRemoteWrite), errors.Is(err, ErrRemoteRead):
		http.Error(w, "remote store error", http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
