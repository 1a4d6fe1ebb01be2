package health

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"pet-care-backend/internal/domain/pets"
	"pet-care-backend/internal/platform/apperr"
	"pet-care-backend/internal/platform/calendar"

	"github.com/google/uuid"
)

const profileExerciseLimit = 10

// PetAuthorizer resuelve la mascota verificando que sea del usuario.
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

type VaccineInput struct {
	Name        string
	Date        string
	Clinic      string
	Vet         string
	Notes       string
	Effect      string
	Precautions string
}

func (s *Service) AddVaccine(ctx context.Context, petID, userID string, in VaccineInput) (Vaccine, error) {
	if _, err := s.pets.Authorize(ctx, petID, userID); err != nil {
		return Vaccine{}, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Date) == "" {
		return Vaccine{}, apperr.Validation("name and date are required")
	}
	date, err := calendar.ParseDate("date", in.Date)
	if err != nil {
		return Vaccine{}, err
	}

	v := Vaccine{
		ID:          uuid.NewString(),
		PetID:       petID,
		Name:        name,
		Date:        date,
		Clinic:      strings.TrimSpace(in.Clinic),
		Vet:         strings.TrimSpace(in.Vet),
		Notes:       strings.TrimSpace(in.Notes),
		Effect:      strings.TrimSpace(in.Effect),
		Precautions: strings.TrimSpace(in.Precautions),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.AddVaccine(ctx, v); err != nil {
		return Vaccine{}, err
	}
	return v, nil
}

type CheckupInput struct {
	Date          string
	Clinic        string
	Vet           string
	Summary       string
	WeightKg      *float64
	Details       string
	ReportFileURL string
}

func (s *Service) AddCheckup(ctx context.Context, petID, userID string, in CheckupInput) (Checkup, error) {
	if _, err := s.pets.Authorize(ctx, petID, userID); err != nil {
		return Checkup{}, err
	}

	date, err := calendar.ParseDate("date", in.Date)
	if err != nil {
		return Checkup{}, err
	}

	c := Checkup{
		ID:            uuid.NewString(),
		PetID:         petID,
		Date:          date,
		Clinic:        strings.TrimSpace(in.Clinic),
		Vet:           strings.TrimSpace(in.Vet),
		Summary:       strings.TrimSpace(in.Summary),
		WeightKg:      positiveFloat(in.WeightKg),
		Details:       strings.TrimSpace(in.Details),
		ReportFileURL: strings.TrimSpace(in.ReportFileURL),
		CreatedAt:     s.now().UTC(),
	}
	if err := s.repo.AddCheckup(ctx, c); err != nil {
		return Checkup{}, err
	}
	return c, nil
}

type AllergyInput struct {
	Allergen string
	Reaction string
	Severity string
	Notes    string
}

func (s *Service) AddAllergy(ctx context.Context, petID, userID string, in AllergyInput) (Allergy, error) {
	if _, err := s.pets.Authorize(ctx, petID, userID); err != nil {
		return Allergy{}, err
	}

	allergen := strings.TrimSpace(in.Allergen)
	if allergen == "" {
		return Allergy{}, apperr.Validation("allergen is required")
	}
	sev, err := parseLevel("severity", in.Severity, string(SeverityLow))
	if err != nil {
		return Allergy{}, err
	}

	a := Allergy{
		ID:        uuid.NewString(),
		PetID:     petID,
		Allergen:  allergen,
		Reaction:  strings.TrimSpace(in.Reaction),
		Severity:  Severity(sev),
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.AddAllergy(ctx, a); err != nil {
		return Allergy{}, err
	}
	return a, nil
}

type ExerciseInput struct {
	Date            string
	Activity        string
	DurationMinutes int
	Intensity       string
}

func (s *Service) AddExercise(ctx context.Context, petID, userID string, in ExerciseInput) (Exercise, error) {
	if _, err := s.pets.Authorize(ctx, petID, userID); err != nil {
		return Exercise{}, err
	}

	activity := strings.TrimSpace(in.Activity)
	if activity == "" || strings.TrimSpace(in.Date) == "" || in.DurationMinutes == 0 {
		return Exercise{}, apperr.Validation("date, activity and durationMinutes are required")
	}
	if in.DurationMinutes < 0 || in.DurationMinutes > maxIntValue {
		return Exercise{}, apperr.Validation("durationMinutes must be between 1 and 2147483647")
	}
	date, err := calendar.ParseDate("date", in.Date)
	if err != nil {
		return Exercise{}, err
	}
	intensity, err := parseLevel("intensity", in.Intensity, string(IntensityMedium))
	if err != nil {
		return Exercise{}, err
	}

	e := Exercise{
		ID:              uuid.NewString(),
		PetID:           petID,
		Date:            date,
		Activity:        activity,
		DurationMinutes: in.DurationMinutes,
		Intensity:       Intensity(intensity),
		CreatedAt:       s.now().UTC(),
	}
	if err := s.repo.AddExercise(ctx, e); err != nil {
		return Exercise{}, err
	}
	return e, nil
}

type FeedingPlanInput struct {
	Food            string
	CaloriesPerMeal *int
	Schedule        []string
	Notes           string
}

// SaveFeedingPlan crea o reemplaza el plan de la mascota.
func (s *Service) SaveFeedingPlan(ctx context.Context, petID, userID string, in FeedingPlanInput) (FeedingPlan, error) {
	if _, err := s.pets.Authorize(ctx, petID, userID); err != nil {
		return FeedingPlan{}, err
	}

	schedule := make([]string, 0, len(in.Schedule))
	for _, slot := range in.Schedule {
		hhmm, err := calendar.ParseClock("schedule", slot)
		if err != nil {
			return FeedingPlan{}, err
		}
		schedule = append(schedule, hhmm)
	}

	var calories *int
	if in.CaloriesPerMeal != nil && *in.CaloriesPerMeal > 0 && *in.CaloriesPerMeal <= maxIntValue {
		c := *in.CaloriesPerMeal
		calories = &c
	}

	p := FeedingPlan{
		PetID:           petID,
		Food:            strings.TrimSpace(in.Food),
		CaloriesPerMeal: calories,
		Schedule:        schedule,
		Notes:           strings.TrimSpace(in.Notes),
		UpdatedAt:       s.now().UTC(),
	}
	if err := s.repo.UpsertFeedingPlan(ctx, p); err != nil {
		return FeedingPlan{}, err
	}
	return p, nil
}

// Profile arma el perfil de salud completo de la mascota.
func (s *Service) Profile(ctx context.Context, petID, userID string) (Profile, error) {
	pet, err := s.pets.Authorize(ctx, petID, userID)
	if err != nil {
		return Profile{}, err
	}

	vaccines, err := s.repo.ListVaccines(ctx, petID)
	if err != nil {
		return Profile{}, err
	}
	checkups, err := s.repo.ListCheckups(ctx, petID)
	if err != nil {
		return Profile{}, err
	}
	allergies, err := s.repo.ListAllergies(ctx, petID)
	if err != nil {
		return Profile{}, err
	}
	exercises, err := s.repo.ListExercises(ctx, petID, profileExerciseLimit)
	if err != nil {
		return Profile{}, err
	}

	plan, err := s.repo.GetFeedingPlan(ctx, petID)
	if errors.Is(err, apperr.ErrNotFound) {
		plan = FeedingPlan{PetID: petID, Schedule: []string{}}
	} else if err != nil {
		return Profile{}, err
	}

	return Profile{
		PetID:       pet.ID,
		Name:        pet.Name,
		Species:     string(pet.Species),
		Breed:       pet.Breed,
		AgeYears:    pet.AgeInYears(),
		WeightKg:    pet.WeightKg,
		AvatarURL:   pet.AvatarURL,
		Vaccines:    vaccines,
		Checkups:    checkups,
		Allergies:   allergies,
		FeedingPlan: plan,
		Exercises:   exercises,
	}, nil
}

func parseLevel(field, raw, def string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return def, nil
	}
	switch v {
	case "low", "medium", "high":
		return v, nil
	}
	return "", apperr.Validation(field + " must be low, medium or high")
}

// Topes de las columnas INT y NUMERIC(5,2).
const (
	maxIntValue = math.MaxInt32
	maxWeightKg = 999.99
)

func positiveFloat(v *float64) *float64 {
	if v == nil || *v <= 0 || math.IsNaN(*v) || math.IsInf(*v, 0) || math.Round(*v*100) > maxWeightKg*100 {
		return nil
	}
	f := *v
	return &f
}
