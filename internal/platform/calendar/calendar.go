// Package calendar concentra el manejo de fechas "YYYY-MM-DD" y horas "HH:MM"
// que viajan como string por la API y la base.
package calendar

import (
	"strings"
	"time"

	"pet-care-backend/internal/platform/apperr"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseDate valida una fecha de calendario y la devuelve normalizada.
func ParseDate(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperr.Validation(field + " is required")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", apperr.Validation(field + " must be a date in YYYY-MM-DD format")
	}
	return t.Format(DateLayout), nil
}

// ParseClock valida una hora "HH:MM" (24h).
func ParseClock(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) != len(ClockLayout) {
		return "", apperr.Validation(field + " must be in HH:MM format")
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return "", apperr.Validation(field + " must be in HH:MM format")
	}
	return t.Format(ClockLayout), nil
}

// Day devuelve la fecha de t en loc. loc nil => UTC.
func Day(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// Clock devuelve la hora "HH:MM" de t en loc. loc nil => UTC.
func Clock(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(ClockLayout)
}

// LastDays devuelve las n fechas que terminan en today (inclusive), de la más vieja a la más nueva.
func LastDays(today string, n int) []string {
	end, err := time.Parse(DateLayout, today)
	if err != nil || n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = end.AddDate(0, 0, i-(n-1)).Format(DateLayout)
	}
	return out
}
