package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// CreateSchema crea las tablas si no existen. No es una herramienta de migraciones:
// solo deja la base lista para arrancar.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pets (
		id            TEXT PRIMARY KEY,
		owner_user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		species       TEXT NOT NULL,
		breed         TEXT NOT NULL DEFAULT '',
		age_in_months INT,
		weight_kg     NUMERIC(5,2),
		avatar_url    TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pets_owner ON pets (owner_user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS vaccines (
		id          TEXT PRIMARY KEY,
		pet_id      TEXT NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		date        DATE NOT NULL,
		clinic      TEXT NOT NULL DEFAULT '',
		vet         TEXT NOT NULL DEFAULT '',
		notes       TEXT NOT NULL DEFAULT '',
		effect      TEXT NOT NULL DEFAULT '',
		precautions TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS checkups (
		id              TEXT PRIMARY KEY,
		pet_id          TEXT NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
		date            DATE NOT NULL,
		clinic          TEXT NOT NULL DEFAULT '',
		vet             TEXT NOT NULL DEFAULT '',
		summary         TEXT NOT NULL DEFAULT '',
		weight_kg       NUMERIC(5,2),
		details         TEXT NOT NULL DEFAULT '',
		report_file_url TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS allergies (
		id         TEXT PRIMARY KEY,
		pet_id     TEXT NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
		allergen   TEXT NOT NULL,
		reaction   TEXT NOT NULL DEFAULT '',
		severity   TEXT NOT NULL DEFAULT 'low',
		notes      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS exercises (
		id               TEXT PRIMARY KEY,
		pet_id           TEXT NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
		date             DATE NOT NULL,
		activity         TEXT NOT NULL,
		duration_minutes INT NOT NULL,
		intensity        TEXT NOT NULL DEFAULT 'medium',
		created_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS feeding_plans (
		pet_id            TEXT PRIMARY KEY REFERENCES pets(id) ON DELETE CASCADE,
		food              TEXT NOT NULL DEFAULT '',
		calories_per_meal INT,
		schedule          JSONB NOT NULL DEFAULT '[]',
		notes             TEXT NOT NULL DEFAULT '',
		updated_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS habit_entries (
		id               TEXT PRIMARY KEY,
		pet_id           TEXT NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
		entry_date       DATE NOT NULL,
		feeding_grams    INT,
		exercise_minutes INT,
		weight_kg        NUMERIC(5,2),
		completed_tasks  JSONB NOT NULL DEFAULT '[]',
		notes            TEXT NOT NULL DEFAULT '',
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL,
		CONSTRAINT uniq_pet_entry_date UNIQUE (pet_id, entry_date)
	)`,
	`CREATE TABLE IF NOT EXISTS feeding_reminders (
		id         TEXT PRIMARY KEY,
		pet_id     TEXT NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
		label      TEXT NOT NULL,
		at_time    TEXT NOT NULL,
		enabled    BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feeding_reminders_due ON feeding_reminders (at_time) WHERE enabled`,
	`CREATE TABLE IF NOT EXISTS posts (
		id         TEXT PRIMARY KEY,
		author_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content    TEXT NOT NULL,
		media      JSONB NOT NULL DEFAULT '[]',
		tags       JSONB NOT NULL DEFAULT '[]',
		likes      INT NOT NULL DEFAULT 0 CHECK (likes >= 0),
		comments   INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS post_likes (
		post_id    TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (post_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS post_comments (
		id         TEXT PRIMARY KEY,
		post_id    TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		author_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		text       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id         TEXT PRIMARY KEY,
		author_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		question   TEXT NOT NULL,
		tags       JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS answers (
		id          TEXT PRIMARY KEY,
		question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		author_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		text        TEXT NOT NULL,
		is_accepted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_answers_accepted ON answers (question_id) WHERE is_accepted`,
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
