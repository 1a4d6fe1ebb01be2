package memory

import (
	"context"
	"sort"
	"sync"

	"pet-care-backend/internal/domain/habits"
)

type habitRepo struct {
	mu sync.Mutex
	// petID -> date -> entry
	byPet map[string]map[string]habits.Entry
}

func NewHabitRepo() habits.Repository {
	return &habitRepo{byPet: make(map[string]map[string]habits.Entry)}
}

func (r *habitRepo) Upsert(ctx context.Context, e habits.Entry) (habits.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	days, ok := r.byPet[e.PetID]
	if !ok {
		days = make(map[string]habits.Entry)
		r.byPet[e.PetID] = days
	}
	if prev, exists := days[e.Date]; exists {
		e.ID = prev.ID
		e.CreatedAt = prev.CreatedAt
	}
	e.CompletedTasks = append([]string{}, e.CompletedTasks...)
	days[e.Date] = e
	return e, nil
}

func (r *habitRepo) ListRecent(ctx context.Context, petID string, limit int) ([]habits.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]habits.Entry, 0, len(r.byPet[petID]))
	for _, e := range r.byPet[petID] {
		e.CompletedTasks = append([]string{}, e.CompletedTasks...)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
