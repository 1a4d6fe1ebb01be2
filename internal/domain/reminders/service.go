package reminders

import (
	"context"
	"strings"
	"time"

	"pet-care-backend/internal/domain/pets"
	"pet-care-backend/internal/platform/apperr"
	"pet-care-backend/internal/platform/calendar"

	"github.com/google/uuid"
)

type PetAuthorizer interface {
	Authorize(ctx context.Context, petID, userID string) (pets.Pet, error)
}

type Service struct {
	repo Repository
	pets PetAuthorizer
	now  func() time.Time
}

func NewService(repo Repository, petsSvc PetAuthorizer) *Service {
	return &Service{
		repo: repo,
		pets: petsSvc,
		now:  time.Now,
	}
}

// accessErrorOr prioriza el error de acceso a la mascota sobre err (p.ej. un body inválido).
func (s *Service) accessErrorOr(ctx context.Context, petID, userID string, err error) error {
	if _, aerr := s.pets.Authorize(ctx, petID, userID); aerr != nil {
		return aerr
	}
	return err
}

func (s *Service) List(ctx context.Context, petID, userID string) ([]Reminder, error) {
	if _, err := s.pets.Authorize(ctx, petID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByPet(ctx, petID)
}

// CreateInput: campos nil toman el valor por defecto.
type CreateInput struct {
	Label   *string
	Time    *string
	Enabled *bool
}

func (s *Service) Create(ctx context.Context, petID, userID string, in CreateInput) (Reminder, error) {
	if _, err := s.pets.Authorize(ctx, petID, userID); err != nil {
		return Reminder{}, err
	}

	label := DefaultLabel
	if in.Label != nil && strings.TrimSpace(*in.Label) != "" {
		label = strings.TrimSpace(*in.Label)
	}
	at := DefaultTime
	if in.Time != nil {
		hhmm, err := calendar.ParseClock("time", *in.Time)
		if err != nil {
			return Reminder{}, err
		}
		at = hhmm
	}
	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}

	now := s.now().UTC()
	r := Reminder{
		ID:        uuid.NewString(),
		PetID:     petID,
		Label:     label,
		Time:      at,
		Enabled:   enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	Label   *string
	Time    *string
	Enabled *bool
}

func (s *Service) Update(ctx context.Context, petID, reminderID, userID string, in UpdateInput) (Reminder, error) {
	if _, err := s.pets.Authorize(ctx, petID, userID); err != nil {
		return Reminder{}, err
	}

	r, err := s.repo.GetByID(ctx, strings.TrimSpace(reminderID))
	if err != nil {
		return Reminder{}, err
	}
	// Un recordatorio de otra mascota no existe para esta ruta.
	if r.PetID != petID {
		return Reminder{}, apperr.NotFound("reminder not found")
	}

	if in.Label != nil {
		label := strings.TrimSpace(*in.Label)
		if label == "" {
			return Reminder{}, apperr.Validation("label must not be empty")
		}
		r.Label = label
	}
	if in.Time != nil {
		hhmm, err := calendar.ParseClock("time", *in.Time)
		if err != nil {
			return Reminder{}, err
		}
		r.Time = hhmm
	}
	if in.Enabled != nil {
		r.Enabled = *in.Enabled
	}
	r.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, r); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

// Due devuelve los recordatorios habilitados para el minuto de at en loc.
func (s *Service) Due(ctx context.Context, at time.Time, loc *time.Location) ([]Reminder, error) {
	return s.repo.ListDue(ctx, calendar.Clock(at, loc))
}
