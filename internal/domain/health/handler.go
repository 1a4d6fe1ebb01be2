package health

import (
	"net/http"

	"pet-care-backend/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registra rutas planas bajo /pets/{petID}: varios módulos
// comparten ese prefijo y chi no admite montarlo dos veces.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/pets/{petID}/health", profileHandler(svc))

	r.Post("/pets/{petID}/vaccines", addVaccineHandler(svc))
	r.Post("/pets/{petID}/checkups", addCheckupHandler(svc))
	r.Post("/pets/{petID}/allergies", addAllergyHandler(svc))
	r.Post("/pets/{petID}/exercises", addExerciseHandler(svc))
	r.Put("/pets/{petID}/feeding-plan", saveFeedingPlanHandler(svc))
}

type vaccineRequest struct {
	Name        string `json:"name"`
	Date        string `json:"date" example:"2024-10-20"`
	Clinic      string `json:"clinic"`
	Vet         string `json:"vet"`
	Notes       string `json:"notes"`
	Effect      string `json:"effect"`
	Precautions string `json:"precautions"`
}

type vaccineResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	Clinic      string `json:"clinic"`
	Vet         string `json:"vet"`
	Notes       string `json:"notes"`
	Effect      string `json:"effect,omitempty"`
	Precautions string `json:"precautions,omitempty"`
}

type checkupRequest struct {
	Date          string   `json:"date" example:"2024-10-20"`
	Clinic        string   `json:"clinic"`
	Vet           string   `json:"vet"`
	Summary       string   `json:"summary"`
	WeightKg      *float64 `json:"weightKg"`
	Details       string   `json:"details"`
	ReportFileURL string   `json:"reportFileUrl"`
}

type checkupResponse struct {
	ID            string   `json:"id"`
	Date          string   `json:"date"`
	Clinic        string   `json:"clinic"`
	Vet           string   `json:"vet"`
	Summary       string   `json:"summary"`
	WeightKg      *float64 `json:"weightKg"`
	Details       string   `json:"details,omitempty"`
	ReportFileURL string   `json:"reportFileUrl,omitempty"`
}

type allergyRequest struct {
	Allergen string `json:"allergen"`
	Reaction string `json:"reaction"`
	Severity string `json:"severity" enums:"low,medium,high"`
	Notes    string `json:"notes"`
}

type allergyResponse struct {
	ID       string   `json:"id"`
	Allergen string   `json:"allergen"`
	Reaction string   `json:"reaction"`
	Severity Severity `json:"severity"`
	Notes    string   `json:"notes"`
}

type exerciseRequest struct {
	Date            string `json:"date" example:"2024-10-20"`
	Activity        string `json:"activity"`
	DurationMinutes int    `json:"durationMinutes"`
	Intensity       string `json:"intensity" enums:"low,medium,high"`
}

type exerciseResponse struct {
	ID              string    `json:"id"`
	Date            string    `json:"date"`
	Activity        string    `json:"activity"`
	DurationMinutes int       `json:"durationMinutes"`
	Intensity       Intensity `json:"intensity"`
}

type feedingPlanRequest struct {
	Food            string   `json:"food"`
	CaloriesPerMeal *int     `json:"caloriesPerMeal"`
	Schedule        []string `json:"schedule" example:"08:00,19:00"`
	Notes           string   `json:"notes"`
}

type feedingPlanResponse struct {
	Food            string   `json:"food"`
	CaloriesPerMeal *int     `json:"caloriesPerMeal"`
	Schedule        []string `json:"schedule"`
	Notes           string   `json:"notes"`
}

type profileResponse struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Species         string              `json:"species"`
	Breed           string              `json:"breed"`
	Age             int                 `json:"age"`
	WeightKg        *float64            `json:"weightKg"`
	AvatarURL       string              `json:"avatarUrl,omitempty"`
	Vaccines        []vaccineResponse   `json:"vaccines"`
	Checkups        []checkupResponse   `json:"checkups"`
	Allergies       []allergyResponse   `json:"allergies"`
	FeedingPlan     feedingPlanResponse `json:"feedingPlan"`
	ExerciseRecords []exerciseResponse  `json:"exerciseRecords"`
}

// profileHandler godoc
// @Summary Perfil de salud
// @Description Vacunas y controles por fecha descendente, alergias, plan de alimentación y los 10 ejercicios más recientes.
// @Tags health
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} profileResponse
// @Failure 401 {object} httpx.ErrorBody "unauthorized"
// @Failure 403 {object} httpx.ErrorBody "forbidden"
// @Failure 404 {object} httpx.ErrorBody "pet not found"
// @Router /pets/{petID}/health [get]
func profileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		p, err := svc.Profile(r.Context(), chi.URLParam(r, "petID"), userID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// addVaccineHandler godoc
// @Summary Registrar vacuna
// @Tags health
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param payload body vaccineRequest true "name y date son obligatorios"
// @Success 201 {object} vaccineResponse
// @Failure 400 {object} httpx.ErrorBody "validation error"
// @Failure 403 {object} httpx.ErrorBody "forbidden"
// @Failure 404 {object} httpx.ErrorBody "pet not found"
// @Router /pets/{petID}/vaccines [post]
func addVaccineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req vaccineRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, svc.accessErrorOr(r.Context(), chi.URLParam(r, "petID"), userID, err))
			return
		}

		v, err := svc.AddVaccine(r.Context(), chi.URLParam(r, "petID"), userID, VaccineInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toVaccineResponse(v))
	}
}

// addCheckupHandler godoc
// @Summary Registrar control médico
// @Tags health
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param payload body checkupRequest true "date es obligatorio"
// @Success 201 {object} checkupResponse
// @Failure 400 {object} httpx.ErrorBody "validation error"
// @Failure 403 {object} httpx.ErrorBody "forbidden"
// @Failure 404 {object} httpx.ErrorBody "pet not found"
// @Router /pets/{petID}/checkups [post]
func addCheckupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req checkupRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, svc.accessErrorOr(r.Context(), chi.URLParam(r, "petID"), userID, err))
			return
		}

		c, err := svc.AddCheckup(r.Context(), chi.URLParam(r, "petID"), userID, CheckupInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toCheckupResponse(c))
	}
}

// addAllergyHandler godoc
// @Summary Registrar alergia
// @Tags health
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param payload body allergyRequest true "allergen es obligatorio; severity por defecto low"
// @Success 201 {object} allergyResponse
// @Failure 400 {object} httpx.ErrorBody "validation error"
// @Failure 403 {object} httpx.ErrorBody "forbidden"
// @Failure 404 {object} httpx.ErrorBody "pet not found"
// @Router /pets/{petID}/allergies [post]
func addAllergyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req allergyRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, svc.accessErrorOr(r.Context(), chi.URLParam(r, "petID"), userID, err))
			return
		}

		a, err := svc.AddAllergy(r.Context(), chi.URLParam(r, "petID"), userID, AllergyInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toAllergyResponse(a))
	}
}

// addExerciseHandler godoc
// @Summary Registrar ejercicio
// @Tags health
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param payload body exerciseRequest true "date, activity y durationMinutes son obligatorios; intensity por defecto medium"
// @Success 201 {object} exerciseResponse
// @Failure 400 {object} httpx.ErrorBody "validation error"
// @Failure 403 {object} httpx.ErrorBody "forbidden"
// @Failure 404 {object} httpx.ErrorBody "pet not found"
// @Router /pets/{petID}/exercises [post]
func addExerciseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req exerciseRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, svc.accessErrorOr(r.Context(), chi.URLParam(r, "petID"), userID, err))
			return
		}

		e, err := svc.AddExercise(r.Context(), chi.URLParam(r, "petID"), userID, ExerciseInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toExerciseResponse(e))
	}
}

// saveFeedingPlanHandler godoc
// @Summary Guardar plan de alimentación
// @Description Crea o reemplaza el plan. schedule es una lista de horas HH:MM.
// @Tags health
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param payload body feedingPlanRequest true "Plan"
// @Success 200 {object} feedingPlanResponse
// @Failure 400 {object} httpx.ErrorBody "validation error"
// @Failure 403 {object} httpx.ErrorBody "forbidden"
// @Failure 404 {object} httpx.ErrorBody "pet not found"
// @Router /pets/{petID}/feeding-plan [put]
func saveFeedingPlanHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req feedingPlanRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, svc.accessErrorOr(r.Context(), chi.URLParam(r, "petID"), userID, err))
			return
		}

		p, err := svc.SaveFeedingPlan(r.Context(), chi.URLParam(r, "petID"), userID, FeedingPlanInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toFeedingPlanResponse(p))
	}
}

func toVaccineResponse(v Vaccine) vaccineResponse {
	return vaccineResponse{
		ID:          v.ID,
		Name:        v.Name,
		Date:        v.Date,
		Clinic:      v.Clinic,
		Vet:         v.Vet,
		Notes:       v.Notes,
		Effect:      v.Effect,
		Precautions: v.Precautions,
	}
}

func toCheckupResponse(c Checkup) checkupResponse {
	return checkupResponse{
		ID:            c.ID,
		Date:          c.Date,
		Clinic:        c.Clinic,
		Vet:           c.Vet,
		Summary:       c.Summary,
		WeightKg:      c.WeightKg,
		Details:       c.Details,
		ReportFileURL: c.ReportFileURL,
	}
}

func toAllergyResponse(a Allergy) allergyResponse {
	return allergyResponse{
		ID:       a.ID,
		Allergen: a.Allergen,
		Reaction: a.Reaction,
		Severity: a.Severity,
		Notes:    a.Notes,
	}
}

func toExerciseResponse(e Exercise) exerciseResponse {
	return exerciseResponse{
		ID:              e.ID,
		Date:            e.Date,
		Activity:        e.Activity,
		DurationMinutes: e.DurationMinutes,
		Intensity:       e.Intensity,
	}
}

func toFeedingPlanResponse(p FeedingPlan) feedingPlanResponse {
	schedule := p.Schedule
	if schedule == nil {
		schedule = []string{}
	}
	return feedingPlanResponse{
		Food:            p.Food,
		CaloriesPerMeal: p.CaloriesPerMeal,
		Schedule:        schedule,
		Notes:           p.Notes,
	}
}

func toProfileResponse(p Profile) profileResponse {
	out := profileResponse{
		ID:              p.PetID,
		Name:            p.Name,
		Species:         p.Species,
		Breed:           p.Breed,
		Age:             p.AgeYears,
		WeightKg:        p.WeightKg,
		AvatarURL:       p.AvatarURL,
		Vaccines:        make([]vaccineResponse, 0, len(p.Vaccines)),
		Checkups:        make([]checkupResponse, 0, len(p.Checkups)),
		Allergies:       make([]allergyResponse, 0, len(p.Allergies)),
		FeedingPlan:     toFeedingPlanResponse(p.FeedingPlan),
		ExerciseRecords: make([]exerciseResponse, 0, len(p.Exercises)),
	}
	for _, v := range p.Vaccines {
		out.Vaccines = append(out.Vaccines, toVaccineResponse(v))
	}
	for _, c := range p.Checkups {
		out.Checkups = append(out.Checkups, toCheckupResponse(c))
	}
	for _, a := range p.Allergies {
		out.Allergies = append(out.Allergies, toAllergyResponse(a))
	}
	for _, e := range p.Exercises {
		out.ExerciseRecords = append(out.ExerciseRecords, toExerciseResponse(e))
	}
	return out
}
