package pets

import (
	"context"
	"strings"

	"pet-care-backend/internal/platform/apperr"
)

// Authorize verifica que la mascota exista y pertenezca a userID.
// - no existe => ErrNotFound
// - es de otra cuenta => ErrForbidden
// Lo usan los demás módulos (health, habits, reminders) antes de cualquier escritura.
func (s *Service) Authorize(ctx context.Context, petID, userID string) (Pet, error) {
	if strings.TrimSpace(userID) == "" {
		return Pet{}, apperr.Unauthorized("unauthorized")
	}
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerUserID != userID {
		return Pet{}, apperr.Forbidden("pet belongs to another account")
	}
	return p, nil
}

// OwnerOf expone el ownerUserID de una mascota.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerUserID, nil
}

// accessErrorOr prioriza el error de acceso a la mascota sobre err (p.ej. un body inválido).
func (s *Service) accessErrorOr(ctx context.Context, petID, userID string, err error) error {
	if _, aerr := s.Authorize(ctx, petID, userID); aerr != nil {
		return aerr
	}
	return err
}
