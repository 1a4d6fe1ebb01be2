package reminders

import "time"

const (
	DefaultLabel = "Feeding"
	DefaultTime  = "08:00"
)

// Reminder es una alarma diaria de alimentación a una hora local "HH:MM".
type Reminder struct {
	ID      string
	PetID   string
	Label   string
	Time    string
	Enabled bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
