package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"pet-care-backend/internal/domain/health"
	"pet-care-backend/internal/platform/apperr"
)

type HealthRepo struct {
	db *sql.DB
}

func NewHealthRepo(db *sql.DB) *HealthRepo {
	return &HealthRepo{db: db}
}

func (r *HealthRepo) AddVaccine(ctx context.Context, v health.Vaccine) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vaccines (id, pet_id, name, date, clinic, vet, notes, effect, precautions, created_at)
		VALUES ($1,$2,$3,$4::date,$5,$6,$7,$8,$9,$10)
	`, v.ID, v.PetID, v.Name, v.Date, v.Clinic, v.Vet, v.Notes, v.Effect, v.Precautions, v.CreatedAt)
	return err
}

func (r *HealthRepo) ListVaccines(ctx context.Context, petID string) ([]health.Vaccine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, name, to_char(date, 'YYYY-MM-DD'), clinic, vet, notes, effect, precautions, created_at
		FROM vaccines
		WHERE pet_id = $1
		ORDER BY date DESC, created_at DESC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]health.Vaccine, 0)
	for rows.Next() {
		var v health.Vaccine
		if err := rows.Scan(&v.ID, &v.PetID, &v.Name, &v.Date, &v.Clinic, &v.Vet, &v.Notes, &v.Effect, &v.Precautions, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *HealthRepo) AddCheckup(ctx context.Context, c health.Checkup) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO checkups (id, pet_id, date, clinic, vet, summary, weight_kg, details, report_file_url, created_at)
		VALUES ($1,$2,$3::date,$4,$5,$6,$7,$8,$9,$10)
	`, c.ID, c.PetID, c.Date, c.Clinic, c.Vet, c.Summary, toNullFloat(c.WeightKg), c.Details, c.ReportFileURL, c.CreatedAt)
	return err
}

func (r *HealthRepo) ListCheckups(ctx context.Context, petID string) ([]health.Checkup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, to_char(date, 'YYYY-MM-DD'), clinic, vet, summary, weight_kg::float8, details, report_file_url, created_at
		FROM checkups
		WHERE pet_id = $1
		ORDER BY date DESC, created_at DESC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]health.Checkup, 0)
	for rows.Next() {
		var (
			c      health.Checkup
			weight sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &c.PetID, &c.Date, &c.Clinic, &c.Vet, &c.Summary, &weight, &c.Details, &c.ReportFileURL, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.WeightKg = fromNullFloat(weight)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *HealthRepo) AddAllergy(ctx context.Context, a health.Allergy) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO allergies (id, pet_id, allergen, reaction, severity, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, a.ID, a.PetID, a.Allergen, a.Reaction, string(a.Severity), a.Notes, a.CreatedAt)
	return err
}

func (r *HealthRepo) ListAllergies(ctx context.Context, petID string) ([]health.Allergy, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, allergen, reaction, severity, notes, created_at
		FROM allergies
		WHERE pet_id = $1
		ORDER BY created_at ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]health.Allergy, 0)
	for rows.Next() {
		var (
			a   health.Allergy
			sev string
		)
		if err := rows.Scan(&a.ID, &a.PetID, &a.Allergen, &a.Reaction, &sev, &a.Notes, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Severity = health.Severity(sev)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *HealthRepo) AddExercise(ctx context.Context, e health.Exercise) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exercises (id, pet_id, date, activity, duration_minutes, intensity, created_at)
		VALUES ($1,$2,$3::date,$4,$5,$6,$7)
	`, e.ID, e.PetID, e.Date, e.Activity, e.DurationMinutes, string(e.Intensity), e.CreatedAt)
	return err
}

func (r *HealthRepo) ListExercises(ctx context.Context, petID string, limit int) ([]health.Exercise, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, to_char(date, 'YYYY-MM-DD'), activity, duration_minutes, intensity, created_at
		FROM exercises
		WHERE pet_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2
	`, petID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]health.Exercise, 0)
	for rows.Next() {
		var (
			e         health.Exercise
			intensity string
		)
		if err := rows.Scan(&e.ID, &e.PetID, &e.Date, &e.Activity, &e.DurationMinutes, &intensity, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Intensity = health.Intensity(intensity)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *HealthRepo) UpsertFeedingPlan(ctx context.Context, p health.FeedingPlan) error {
	schedule := p.Schedule
	if schedule == nil {
		schedule = []string{}
	}
	raw, err := json.Marshal(schedule)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO feeding_plans (pet_id, food, calories_per_meal, schedule, notes, updated_at)
		VALUES ($1,$2,$3,$4::jsonb,$5,$6)
		ON CONFLICT (pet_id) DO UPDATE SET
			food = EXCLUDED.food,
			calories_per_meal = EXCLUDED.calories_per_meal,
			schedule = EXCLUDED.schedule,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
	`, p.PetID, p.Food, toNullInt(p.CaloriesPerMeal), string(raw), p.Notes, p.UpdatedAt)
	return err
}

func (r *HealthRepo) GetFeedingPlan(ctx context.Context, petID string) (health.FeedingPlan, error) {
	var (
		p        health.FeedingPlan
		calories sql.NullInt64
		raw      []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT pet_id, food, calories_per_meal, schedule, notes, updated_at
		FROM feeding_plans
		WHERE pet_id = $1
	`, petID).Scan(&p.PetID, &p.Food, &calories, &raw, &p.Notes, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return health.FeedingPlan{}, apperr.NotFound("feeding plan not found")
	}
	if err != nil {
		return health.FeedingPlan{}, err
	}

	p.CaloriesPerMeal = fromNullInt(calories)
	if err := decodeStrings(raw, &p.Schedule); err != nil {
		return health.FeedingPlan{}, err
	}
	return p, nil
}

// decodeStrings decodifica un JSONB de strings; null o vacío => slice vacío.
func decodeStrings(raw []byte, dst *[]string) error {
	*dst = []string{}
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	if out != nil {
		*dst = out
	}
	return nil
}
