package habits

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-care-backend/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/pets/{petID}/habits", recordHabitHandler(svc))
	r.Get("/pets/{petID}/habits", listHabitsHandler(svc))

	r.Get("/pets/{petID}/health/trends", trendsHandler(svc))
	r.Get("/pets/{petID}/habit-analytics", analyticsHandler(svc))
}

// recordHabitRequest usa RawMessage en los numéricos: un valor que no sea
// número JSON se guarda como null en lugar de rechazar el check-in.
type recordHabitRequest struct {
	Date            string          `json:"date" example:"2024-10-20"`
	FeedingGrams    json.RawMessage `json:"feedingGrams" swaggertype:"number"`
	ExerciseMinutes json.RawMessage `json:"exerciseMinutes" swaggertype:"number"`
	WeightKg        json.RawMessage `json:"weightKg" swaggertype:"number"`
	CompletedTasks  []string        `json:"completedTasks"`
	Notes           string          `json:"notes"`
}

type habitResponse struct {
	ID              string    `json:"id"`
	Date            string    `json:"date"`
	FeedingGrams    *int      `json:"feedingGrams"`
	ExerciseMinutes *int      `json:"exerciseMinutes"`
	WeightKg        *float64  `json:"weightKg"`
	CompletedTasks  []string  `json:"completedTasks"`
	Notes           string    `json:"notes"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type analyticsResponse struct {
	PetID              string   `json:"petId"`
	CompanionshipScore int      `json:"companionshipScore"`
	ConsistencyScore   int      `json:"consistencyScore"`
	StreakDays         int      `json:"streakDays"`
	Insights           []string `json:"insights"`
}

// recordHabitHandler godoc
// @Summary Registrar check-in diario
// @Description Crea o reemplaza la entrada de la fecha indicada. Numéricos ausentes o inválidos se guardan como null.
// @Tags habits
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param payload body recordHabitRequest true "date obligatorio (YYYY-MM-DD)"
// @Success 201 {object} habitResponse
// @Failure 400 {object} httpx.ErrorBody "fecha inválida"
// @Failure 401 {object} httpx.ErrorBody "unauthorized"
// @Failure 403 {object} httpx.ErrorBody "forbidden"
// @Failure 404 {object} httpx.ErrorBody "pet not found"
// @Router /pets/{petID}/habits [post]
func recordHabitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req recordHabitRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, svc.accessErrorOr(r.Context(), chi.URLParam(r, "petID"), userID, err))
			return
		}

		e, err := svc.Record(r.Context(), chi.URLParam(r, "petID"), userID, RecordInput{
			Date:            req.Date,
			FeedingGrams:    looseNumber(req.FeedingGrams),
			ExerciseMinutes: looseNumber(req.ExerciseMinutes),
			WeightKg:        looseNumber(req.WeightKg),
			CompletedTasks:  req.CompletedTasks,
			Notes:           req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toHabitResponse(e))
	}
}

// listHabitsHandler godoc
// @Summary Historial reciente
// @Tags habits
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param limit query int false "Cantidad (default 5, máximo 30)"
// @Success 200 {array} habitResponse
// @Failure 401 {object} httpx.ErrorBody "unauthorized"
// @Failure 403 {object} httpx.ErrorBody "forbidden"
// @Failure 404 {object} httpx.ErrorBody "pet not found"
// @Router /pets/{petID}/habits [get]
func listHabitsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		// limit no numérico => default
		limit, _ := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("limit")))

		items, err := svc.Recent(r.Context(), chi.URLParam(r, "petID"), userID, limit)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]habitResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toHabitResponse(e))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// trendsHandler godoc
// @Summary Tendencia de 7 días
// @Description Siete puntos, del más antiguo a hoy; los días sin registro van en cero.
// @Tags habits
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} TrendReport
// @Failure 401 {object} httpx.ErrorBody "unauthorized"
// @Failure 403 {object} httpx.ErrorBody "forbidden"
// @Failure 404 {object} httpx.ErrorBody "pet not found"
// @Router /pets/{petID}/health/trends [get]
func trendsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		report, err := svc.Trends(r.Context(), chi.URLParam(r, "petID"), userID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, report)
	}
}

// analyticsHandler godoc
// @Summary Análisis de hábitos
// @Tags habits
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} analyticsResponse
// @Failure 401 {object} httpx.ErrorBody "unauthorized"
// @Failure 403 {object} httpx.ErrorBody "forbidden"
// @Failure 404 {object} httpx.ErrorBody "pet not found"
// @Router /pets/{petID}/habit-analytics [get]
func analyticsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		a, err := svc.Analytics(r.Context(), chi.URLParam(r, "petID"), userID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, analyticsResponse{
			PetID:              a.PetID,
			CompanionshipScore: a.CompanionshipScore,
			ConsistencyScore:   a.ConsistencyScore,
			StreakDays:         a.StreakDays,
			Insights:           a.Insights,
		})
	}
}

// looseNumber devuelve el valor solo si raw es un número JSON.
func looseNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

func toHabitResponse(e Entry) habitResponse {
	tasks := e.CompletedTasks
	if tasks == nil {
		tasks = []string{}
	}
	return habitResponse{
		ID:              e.ID,
		Date:            e.Date,
		FeedingGrams:    e.FeedingGrams,
		ExerciseMinutes: e.ExerciseMinutes,
		WeightKg:        e.WeightKg,
		CompletedTasks:  tasks,
		Notes:           e.Notes,
		UpdatedAt:       e.UpdatedAt,
	}
}
