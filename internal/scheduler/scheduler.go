package scheduler

import (
	"context"
	"fmt"
	"time"

	"pet-care-backend/internal/domain/reminders"
	"pet-care-backend/internal/ports/events"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DueLister devuelve los recordatorios que vencen en el minuto de at.
type DueLister interface {
	Due(ctx context.Context, at time.Time, loc *time.Location) ([]reminders.Reminder, error)
}

// OwnerLookup resuelve el dueño de una mascota para el payload del evento.
type OwnerLookup interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

type Options struct {
	Spec     string // expresión cron de 5 campos
	Location *time.Location
	Timeout  time.Duration
}

// ReminderDue es el payload de reminder.due.
type ReminderDue struct {
	ReminderID  string `json:"reminderId"`
	PetID       string `json:"petId"`
	OwnerUserID string `json:"ownerUserId,omitempty"`
	Label       string `json:"label"`
	Time        string `json:"time"`
}

// Scheduler dispara reminder.due para cada recordatorio habilitado cuya hora coincide con el minuto actual.
type Scheduler struct {
	cron    *cron.Cron
	spec    string
	loc     *time.Location
	timeout time.Duration

	reminders DueLister
	owners    OwnerLookup
	events    events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewScheduler(opts Options, due DueLister, owners OwnerLookup, pub events.Publisher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pub == nil {
		pub = events.Nop()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	spec := opts.Spec
	if spec == "" {
		spec = "* * * * *"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		spec:      spec,
		loc:       loc,
		timeout:   timeout,
		reminders: due,
		owners:    owners,
		events:    pub,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registra el job y arranca el cron. Una expresión inválida es un error de configuración.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.tick); err != nil {
		return fmt.Errorf("schedule reminders %q: %w", s.spec, err)
	}
	s.logger.Info("starting scheduler", zap.String("spec", s.spec), zap.String("tz", s.loc.String()))
	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera a que termine el job en curso.
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("stopping scheduler")
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.RunOnce(ctx, s.now()); err != nil {
		s.logger.Error("reminder run failed", zap.Error(err))
	}
}

// RunOnce publica los recordatorios vencidos en at y devuelve cuántos se publicaron.
func (s *Scheduler) RunOnce(ctx context.Context, at time.Time) (int, error) {
	due, err := s.reminders.Due(ctx, at, s.loc)
	if err != nil {
		return 0, fmt.Errorf("list due reminders: %w", err)
	}

	sent := 0
	for _, r := range due {
		payload := ReminderDue{
			ReminderID: r.ID,
			PetID:      r.PetID,
			Label:      r.Label,
			Time:       r.Time,
		}
		if s.owners != nil {
			owner, err := s.owners.OwnerOf(ctx, r.PetID)
			if err != nil {
				s.logger.Warn("reminder owner lookup failed", zap.String("pet_id", r.PetID), zap.Error(err))
			}
			payload.OwnerUserID = owner
		}

		err := s.events.Publish(ctx, events.Event{
			Subject:    events.SubjectReminderDue,
			OccurredAt: at.UTC(),
			Payload:    payload,
		})
		if err != nil {
			s.logger.Error("reminder publish failed", zap.String("reminder_id", r.ID), zap.Error(err))
			continue
		}
		sent++
	}

	if len(due) > 0 {
		s.logger.Info("reminders dispatched", zap.Int("due", len(due)), zap.Int("sent", sent))
	}
	return sent, nil
}
