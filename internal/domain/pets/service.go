package pets

import (
	"context"
	"math"
	"strings"
	"time"

	"pet-care-backend/internal/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name        string
	Species     string
	Breed       string
	AgeInMonths *int
	WeightKg    *float64
	AvatarURL   string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, apperr.Unauthorized("unauthorized")
	}
	name := strings.TrimSpace(in.Name)
	species := Species(strings.ToLower(strings.TrimSpace(in.Species)))
	if name == "" || species == "" {
		return Pet{}, apperr.Validation("name and species are required")
	}
	if !species.Valid() {
		return Pet{}, apperr.Validation("species must be dog, cat or other")
	}

	now := s.now().UTC()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        name,
		Species:     species,
		Breed:       strings.TrimSpace(in.Breed),
		AgeInMonths: positiveInt(in.AgeInMonths),
		WeightKg:    positiveFloat(in.WeightKg),
		AvatarURL:   strings.TrimSpace(in.AvatarURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

type UpdateProfileInput struct {
	// Punteros: nil = no tocar.
	Name        *string
	Breed       *string
	AgeInMonths *int
	WeightKg    *float64
	AvatarURL   *string
}

func (s *Service) UpdateProfile(ctx context.Context, petID, userID string, in UpdateProfileInput) (Pet, error) {
	p, err := s.Authorize(ctx, petID, userID)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, apperr.Validation("name must not be empty")
		}
		p.Name = name
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.AgeInMonths != nil {
		p.AgeInMonths = positiveInt(in.AgeInMonths)
	}
	if in.WeightKg != nil {
		p.WeightKg = positiveFloat(in.WeightKg)
	}
	if in.AvatarURL != nil {
		p.AvatarURL = strings.TrimSpace(*in.AvatarURL)
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, apperr.NotFound("pet not found")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// Topes de las columnas age_in_months (INT) y weight_kg (NUMERIC(5,2)).
const (
	maxAgeInMonths = math.MaxInt32
	maxWeightKg    = 999.99
)

// 0, negativos, no finitos o fuera de rango se guardan como null.
func positiveInt(v *int) *int {
	if v == nil || *v <= 0 || *v > maxAgeInMonths {
		return nil
	}
	n := *v
	return &n
}

func positiveFloat(v *float64) *float64 {
	if v == nil || *v <= 0 || math.IsNaN(*v) || math.IsInf(*v, 0) || math.Round(*v*100) > maxWeightKg*100 {
		return nil
	}
	f := *v
	return &f
}
