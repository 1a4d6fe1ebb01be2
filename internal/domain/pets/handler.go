package pets

import (
	"net/http"

	"pet-care-backend/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/pets", createPetHandler(svc))
	r.Get("/pets", listPetsHandler(svc))

	r.Get("/pets/{petID}", getPetHandler(svc))
	r.Put("/pets/{petID}", updatePetHandler(svc))
}

type createPetRequest struct {
	Name        string   `json:"name"`
	Species     string   `json:"species" enums:"dog,cat,other"`
	Breed       string   `json:"breed"`
	AgeInMonths *int     `json:"ageInMonths"`
	WeightKg    *float64 `json:"weightKg"`
	AvatarURL   string   `json:"avatarUrl"`
}

type updatePetRequest struct {
	Name        *string  `json:"name"`
	Breed       *string  `json:"breed"`
	AgeInMonths *int     `json:"ageInMonths"`
	WeightKg    *float64 `json:"weightKg"`
	AvatarURL   *string  `json:"avatarUrl"`
}

type petResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Species     Species  `json:"species"`
	Breed       string   `json:"breed,omitempty"`
	AgeInMonths *int     `json:"ageInMonths"`
	WeightKg    *float64 `json:"weightKg,omitempty"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
}

// createPetHandler godoc
// @Summary Crear mascota
// @Description Crea el perfil de una mascota para la cuenta autenticada.
// @Tags pets
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payload body createPetRequest true "name y species son obligatorios"
// @Success 201 {object} petResponse
// @Failure 400 {object} httpx.ErrorBody "invalid json / species inválida"
// @Failure 401 {object} httpx.ErrorBody "unauthorized"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req createPetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		p, err := svc.Create(r.Context(), userID, CreateInput{
			Name:        req.Name,
			Species:     req.Species,
			Breed:       req.Breed,
			AgeInMonths: req.AgeInMonths,
			WeightKg:    req.WeightKg,
			AvatarURL:   req.AvatarURL,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mis mascotas
// @Tags pets
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {array} petResponse
// @Failure 401 {object} httpx.ErrorBody "unauthorized"
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		items, err := svc.ListByOwner(r.Context(), userID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}

		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Perfil de mascota
// @Tags pets
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 401 {object} httpx.ErrorBody "unauthorized"
// @Failure 403 {object} httpx.ErrorBody "forbidden"
// @Failure 404 {object} httpx.ErrorBody "pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		p, err := svc.Authorize(r.Context(), chi.URLParam(r, "petID"), userID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota
// @Description Solo se modifican los campos enviados.
// @Tags pets
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param payload body updatePetRequest true "Campos a modificar"
// @Success 200 {object} petResponse
// @Failure 400 {object} httpx.ErrorBody "invalid json"
// @Failure 401 {object} httpx.ErrorBody "unauthorized"
// @Failure 403 {object} httpx.ErrorBody "forbidden"
// @Failure 404 {object} httpx.ErrorBody "pet not found"
// @Router /pets/{petID} [put]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req updatePetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, svc.accessErrorOr(r.Context(), chi.URLParam(r, "petID"), userID, err))
			return
		}

		updated, err := svc.UpdateProfile(r.Context(), chi.URLParam(r, "petID"), userID, UpdateProfileInput{
			Name:        req.Name,
			Breed:       req.Breed,
			AgeInMonths: req.AgeInMonths,
			WeightKg:    req.WeightKg,
			AvatarURL:   req.AvatarURL,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:          p.ID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		AgeInMonths: p.AgeInMonths,
		WeightKg:    p.WeightKg,
		AvatarURL:   p.AvatarURL,
	}
}
