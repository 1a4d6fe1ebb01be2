package events

import (
	"context"
	"time"
)

// Subjects publicados por el backend.
const (
	SubjectPostCreated   = "post.created"
	SubjectPostLiked     = "post.liked"
	SubjectHabitRecorded = "habit.recorded"
	SubjectReminderDue   = "reminder.due"
)

// Event es el sobre común de todos los mensajes.
type Event struct {
	Subject    string    `json:"subject"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// Publisher entrega eventos de dominio. Publicar es best-effort:
// quien llama loguea el error pero no falla la operación.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type nopPublisher struct{}

// Nop descarta todos los eventos. Se usa cuando no hay NATS configurado.
func Nop() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, Event) error { return nil }
