package habits

import "time"

// Entry es el check-in diario de una mascota. Único por (PetID, Date).
type Entry struct {
	ID    string
	PetID string
	Date  string // YYYY-MM-DD

	FeedingGrams    *int
	ExerciseMinutes *int
	WeightKg        *float64

	CompletedTasks []string
	Notes          string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TrendPoint es un día de la tendencia; los valores faltantes valen 0.
type TrendPoint struct {
	Date            string  `json:"date"`
	FeedingGrams    int     `json:"feedingGrams"`
	ExerciseMinutes int     `json:"exerciseMinutes"`
	WeightKg        float64 `json:"weightKg"`
}

// TrendReport: siempre TrendDays puntos, del más viejo al más nuevo.
type TrendReport struct {
	PetID  string       `json:"petId"`
	Points []TrendPoint `json:"points"`
}

type Analytics struct {
	PetID              string
	CompanionshipScore int
	ConsistencyScore   int
	StreakDays         int
	Insights           []string
}
