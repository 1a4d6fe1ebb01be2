package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-care-backend/internal/domain/reminders"
	"pet-care-backend/internal/platform/apperr"
)

type RemindersRepo struct {
	db *sql.DB
}

func NewRemindersRepo(db *sql.DB) *RemindersRepo {
	return &RemindersRepo{db: db}
}

const reminderColumns = `id, pet_id, label, at_time, enabled, created_at, updated_at`

func (r *RemindersRepo) Create(ctx context.Context, rem reminders.Reminder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feeding_reminders (`+reminderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, rem.ID, rem.PetID, rem.Label, rem.Time, rem.Enabled, rem.CreatedAt, rem.UpdatedAt)
	return err
}

func (r *RemindersRepo) Update(ctx context.Context, rem reminders.Reminder) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE feeding_reminders
		SET label = $2, at_time = $3, enabled = $4, updated_at = $5
		WHERE id = $1
	`, rem.ID, rem.Label, rem.Time, rem.Enabled, rem.UpdatedAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("reminder not found")
	}
	return nil
}

func (r *RemindersRepo) GetByID(ctx context.Context, id string) (reminders.Reminder, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reminderColumns+` FROM feeding_reminders WHERE id = $1`, id)
	rem, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return reminders.Reminder{}, apperr.NotFound("reminder not found")
	}
	return rem, err
}

func (r *RemindersRepo) ListByPet(ctx context.Context, petID string) ([]reminders.Reminder, error) {
	return r.list(ctx, `WHERE pet_id = $1 ORDER BY at_time ASC, created_at ASC`, petID)
}

func (r *RemindersRepo) ListDue(ctx context.Context, hhmm string) ([]reminders.Reminder, error) {
	return r.list(ctx, `WHERE enabled AND at_time = $1 ORDER BY created_at ASC`, hhmm)
}

func (r *RemindersRepo) list(ctx context.Context, tail string, arg string) ([]reminders.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+reminderColumns+` FROM feeding_reminders `+tail, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reminders.Reminder, 0)
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}

func scanReminder(s scanner) (reminders.Reminder, error) {
	var rem reminders.Reminder
	err := s.Scan(&rem.ID, &rem.PetID, &rem.Label, &rem.Time, &rem.Enabled, &rem.CreatedAt, &rem.UpdatedAt)
	return rem, err
}
