package reminders

import "context"

type Repository interface {
	Create(ctx context.Context, r Reminder) error
	Update(ctx context.Context, r Reminder) error
	GetByID(ctx context.Context, id string) (Reminder, error)
	// ListByPet ordena por hora ascendente.
	ListByPet(ctx context.Context, petID string) ([]Reminder, error)
	// ListDue devuelve los recordatorios habilitados con Time == hhmm.
	ListDue(ctx context.Context, hhmm string) ([]Reminder, error)
}
