package health

import "context"

type Repository interface {
	AddVaccine(ctx context.Context, v Vaccine) error
	// ListVaccines: fecha descendente.
	ListVaccines(ctx context.Context, petID string) ([]Vaccine, error)

	AddCheckup(ctx context.Context, c Checkup) error
	// ListCheckups: fecha descendente.
	ListCheckups(ctx context.Context, petID string) ([]Checkup, error)

	AddAllergy(ctx context.Context, a Allergy) error
	ListAllergies(ctx context.Context, petID string) ([]Allergy, error)

	AddExercise(ctx context.Context, e Exercise) error
	// ListExercises: los limit más recientes, fecha descendente.
	ListExercises(ctx context.Context, petID string, limit int) ([]Exercise, error)

	UpsertFeedingPlan(ctx context.Context, p FeedingPlan) error
	// GetFeedingPlan devuelve ErrNotFound si la mascota no tiene plan.
	GetFeedingPlan(ctx context.Context, petID string) (FeedingPlan, error)
}
