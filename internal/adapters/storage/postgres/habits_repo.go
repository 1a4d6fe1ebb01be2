package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"pet-care-backend/internal/domain/habits"
)

type HabitsRepo struct {
	db *sql.DB
}

func NewHabitsRepo(db *sql.DB) *HabitsRepo {
	return &HabitsRepo{db: db}
}

const habitColumns = `
	id, pet_id, to_char(entry_date, 'YYYY-MM-DD'),
	feeding_grams, exercise_minutes, weight_kg::float8,
	completed_tasks, notes, created_at, updated_at`

// Upsert se apoya en la restricción única (pet_id, entry_date): dos check-ins
// simultáneos del mismo día terminan en una sola fila sin lock en la app.
func (r *HabitsRepo) Upsert(ctx context.Context, e habits.Entry) (habits.Entry, error) {
	tasks := e.CompletedTasks
	if tasks == nil {
		tasks = []string{}
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return habits.Entry{}, err
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO habit_entries (
			id, pet_id, entry_date,
			feeding_grams, exercise_minutes, weight_kg,
			completed_tasks, notes, created_at, updated_at
		) VALUES ($1,$2,$3::date,$4,$5,$6,$7::jsonb,$8,$9,$10)
		ON CONFLICT (pet_id, entry_date) DO UPDATE SET
			feeding_grams = EXCLUDED.feeding_grams,
			exercise_minutes = EXCLUDED.exercise_minutes,
			weight_kg = EXCLUDED.weight_kg,
			completed_tasks = EXCLUDED.completed_tasks,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING `+habitColumns,
		e.ID,
		e.PetID,
		e.Date,
		toNullInt(e.FeedingGrams),
		toNullInt(e.ExerciseMinutes),
		toNullFloat(e.WeightKg),
		string(raw),
		e.Notes,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return scanHabit(row)
}

func (r *HabitsRepo) ListRecent(ctx context.Context, petID string, limit int) ([]habits.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+habitColumns+`
		FROM habit_entries
		WHERE pet_id = $1
		ORDER BY entry_date DESC
		LIMIT $2
	`, petID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]habits.Entry, 0)
	for rows.Next() {
		e, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanHabit(s scanner) (habits.Entry, error) {
	var (
		e       habits.Entry
		grams   sql.NullInt64
		minutes sql.NullInt64
		weight  sql.NullFloat64
		tasks   []byte
	)
	if err := s.Scan(
		&e.ID,
		&e.PetID,
		&e.Date,
		&grams,
		&minutes,
		&weight,
		&tasks,
		&e.Notes,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return habits.Entry{}, err
	}

	e.FeedingGrams = fromNullInt(grams)
	e.ExerciseMinutes = fromNullInt(minutes)
	e.WeightKg = fromNullFloat(weight)
	if err := decodeStrings(tasks, &e.CompletedTasks); err != nil {
		return habits.Entry{}, err
	}
	return e, nil
}
