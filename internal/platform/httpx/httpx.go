package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pet-care-backend/internal/middleware"
	"pet-care-backend/internal/platform/apperr"

	"go.uber.org/zap"
)

// ErrorBody es el cuerpo de toda respuesta de error.
type ErrorBody struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError traduce el tipo de error a status + {"message": ...}.
// Los errores sin tipo se loguean y se responden como 500 sin detalle.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		middleware.Logger(r.Context()).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	WriteJSON(w, status, ErrorBody{Message: apperr.Message(err)})
}

func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON decodifica el body en dst. Body vacío o JSON inválido => ErrValidation.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Validation("invalid json")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid json")
	}
	return nil
}

// RequireUser devuelve el userID de los claims o ErrUnauthorized.
func RequireUser(r *http.Request) (string, error) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return "", apperr.Unauthorized("unauthorized")
	}
	return claims.UserID, nil
}
