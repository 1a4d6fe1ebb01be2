package memory

import (
	"context"
	"sort"
	"sync"

	"pet-care-backend/internal/domain/health"
	"pet-care-backend/internal/platform/apperr"
)

type healthRepo struct {
	mu        sync.RWMutex
	vaccines  map[string][]health.Vaccine
	checkups  map[string][]health.Checkup
	allergies map[string][]health.Allergy
	exercises map[string][]health.Exercise
	plans     map[string]health.FeedingPlan
}

func NewHealthRepo() health.Repository {
	return &healthRepo{
		vaccines:  make(map[string][]health.Vaccine),
		checkups:  make(map[string][]health.Checkup),
		allergies: make(map[string][]health.Allergy),
		exercises: make(map[string][]health.Exercise),
		plans:     make(map[string]health.FeedingPlan),
	}
}

func (r *healthRepo) AddVaccine(ctx context.Context, v health.Vaccine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vaccines[v.PetID] = append(r.vaccines[v.PetID], v)
	return nil
}

func (r *healthRepo) ListVaccines(ctx context.Context, petID string) ([]health.Vaccine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]health.Vaccine{}, r.vaccines[petID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r *healthRepo) AddCheckup(ctx context.Context, c health.Checkup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkups[c.PetID] = append(r.checkups[c.PetID], c)
	return nil
}

func (r *healthRepo) ListCheckups(ctx context.Context, petID string) ([]health.Checkup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]health.Checkup{}, r.checkups[petID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r *healthRepo) AddAllergy(ctx context.Context, a health.Allergy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allergies[a.PetID] = append(r.allergies[a.PetID], a)
	return nil
}

func (r *healthRepo) ListAllergies(ctx context.Context, petID string) ([]health.Allergy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]health.Allergy{}, r.allergies[petID]...), nil
}

func (r *healthRepo) AddExercise(ctx context.Context, e health.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exercises[e.PetID] = append(r.exercises[e.PetID], e)
	return nil
}

func (r *healthRepo) ListExercises(ctx context.Context, petID string, limit int) ([]health.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]health.Exercise{}, r.exercises[petID]...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *healthRepo) UpsertFeedingPlan(ctx context.Context, p health.FeedingPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.Schedule = append([]string{}, p.Schedule...)
	r.plans[p.PetID] = p
	return nil
}

func (r *healthRepo) GetFeedingPlan(ctx context.Context, petID string) (health.FeedingPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plans[petID]
	if !ok {
		return health.FeedingPlan{}, apperr.NotFound("feeding plan not found")
	}
	p.Schedule = append([]string{}, p.Schedule...)
	return p, nil
}
