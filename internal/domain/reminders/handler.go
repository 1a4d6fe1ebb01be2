package reminders

import (
	"net/http"

	"pet-care-backend/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/pets/{petID}/feeding-reminders", listRemindersHandler(svc))
	r.Post("/pets/{petID}/feeding-reminders", createReminderHandler(svc))
	r.Patch("/pets/{petID}/feeding-reminders/{reminderID}", updateReminderHandler(svc))
}

type reminderRequest struct {
	Label   *string `json:"label"`
	Time    *string `json:"time" example:"08:00"`
	Enabled *bool   `json:"enabled"`
}

type reminderResponse struct {
	ID      string `json:"id"`
	PetID   string `json:"petId"`
	Label   string `json:"label"`
	Time    string `json:"time"`
	Enabled bool   `json:"enabled"`
}

// listRemindersHandler godoc
// @Summary Recordatorios de alimentación
// @Tags reminders
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} reminderResponse
// @Failure 401 {object} httpx.ErrorBody "unauthorized"
// @Failure 403 {object} httpx.ErrorBody "forbidden"
// @Failure 404 {object} httpx.ErrorBody "pet not found"
// @Router /pets/{petID}/feeding-reminders [get]
func listRemindersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		items, err := svc.List(r.Context(), chi.URLParam(r, "petID"), userID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]reminderResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toReminderResponse(it))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// createReminderHandler godoc
// @Summary Crear recordatorio
// @Description Por defecto label "Feeding", time "08:00" y enabled true.
// @Tags reminders
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param payload body reminderRequest false "Campos opcionales"
// @Success 201 {object} reminderResponse
// @Failure 400 {object} httpx.ErrorBody "time inválido"
// @Failure 403 {object} httpx.ErrorBody "forbidden"
// @Failure 404 {object} httpx.ErrorBody "pet not found"
// @Router /pets/{petID}/feeding-reminders [post]
func createReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req reminderRequest
		if r.ContentLength != 0 {
			if err := httpx.DecodeJSON(r, &req); err != nil {
				httpx.WriteError(w, r, svc.accessErrorOr(r.Context(), chi.URLParam(r, "petID"), userID, err))
				return
			}
		}

		rem, err := svc.Create(r.Context(), chi.URLParam(r, "petID"), userID, CreateInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toReminderResponse(rem))
	}
}

// updateReminderHandler godoc
// @Summary Modificar recordatorio
// @Tags reminders
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param reminderID path string true "ID del recordatorio"
// @Param payload body reminderRequest true "Campos a modificar"
// @Success 200 {object} reminderResponse
// @Failure 400 {object} httpx.ErrorBody "validation error"
// @Failure 403 {object} httpx.ErrorBody "forbidden"
// @Failure 404 {object} httpx.ErrorBody "not found"
// @Router /pets/{petID}/feeding-reminders/{reminderID} [patch]
func updateReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req reminderRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, svc.accessErrorOr(r.Context(), chi.URLParam(r, "petID"), userID, err))
			return
		}

		rem, err := svc.Update(r.Context(),
			chi.URLParam(r, "petID"),
			chi.URLParam(r, "reminderID"),
			userID,
			UpdateInput(req),
		)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toReminderResponse(rem))
	}
}

func toReminderResponse(r Reminder) reminderResponse {
	return reminderResponse{
		ID:      r.ID,
		PetID:   r.PetID,
		Label:   r.Label,
		Time:    r.Time,
		Enabled: r.Enabled,
	}
}
