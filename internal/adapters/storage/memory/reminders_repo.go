package memory

import (
	"context"
	"sort"
	"sync"

	"pet-care-backend/internal/domain/reminders"
	"pet-care-backend/internal/platform/apperr"
)

type reminderRepo struct {
	mu   sync.RWMutex
	byID map[string]reminders.Reminder
}

func NewReminderRepo() reminders.Repository {
	return &reminderRepo{byID: make(map[string]reminders.Reminder)}
}

func (r *reminderRepo) Create(ctx context.Context, rem reminders.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[rem.ID]; exists {
		return apperr.Conflict("reminder already exists")
	}
	r.byID[rem.ID] = rem
	return nil
}

func (r *reminderRepo) Update(ctx context.Context, rem reminders.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[rem.ID]; !exists {
		return apperr.NotFound("reminder not found")
	}
	r.byID[rem.ID] = rem
	return nil
}

func (r *reminderRepo) GetByID(ctx context.Context, id string) (reminders.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rem, ok := r.byID[id]
	if !ok {
		return reminders.Reminder{}, apperr.NotFound("reminder not found")
	}
	return rem, nil
}

func (r *reminderRepo) ListByPet(ctx context.Context, petID string) ([]reminders.Reminder, error) {
	return r.filter(func(rem reminders.Reminder) bool { return rem.PetID == petID }), nil
}

func (r *reminderRepo) ListDue(ctx context.Context, hhmm string) ([]reminders.Reminder, error) {
	return r.filter(func(rem reminders.Reminder) bool { return rem.Enabled && rem.Time == hhmm }), nil
}

func (r *reminderRepo) filter(keep func(reminders.Reminder) bool) []reminders.Reminder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reminders.Reminder, 0)
	for _, rem := range r.byID {
		if keep(rem) {
			out = append(out, rem)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
