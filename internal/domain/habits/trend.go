package habits

import "pet-care-backend/internal/platform/calendar"

const (
	TrendDays = 7
	// trendFetch es el margen de filas que se leen para cubrir la ventana.
	trendFetch = 14
)

// BuildTrend arma los TrendDays puntos que terminan en today.
// Cada día toma la entrada con la misma fecha exacta; si no hay, queda en cero.
func BuildTrend(petID string, entries []Entry, today string) TrendReport {
	byDate := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if _, seen := byDate[e.Date]; !seen {
			byDate[e.Date] = e
		}
	}

	days := calendar.LastDays(today, TrendDays)
	points := make([]TrendPoint, 0, len(days))
	for _, d := range days {
		p := TrendPoint{Date: d}
		if e, ok := byDate[d]; ok {
			if e.FeedingGrams != nil {
				p.FeedingGrams = *e.FeedingGrams
			}
			if e.ExerciseMinutes != nil {
				p.ExerciseMinutes = *e.ExerciseMinutes
			}
			if e.WeightKg != nil {
				p.WeightKg = *e.WeightKg
			}
		}
		points = append(points, p)
	}

	return TrendReport{PetID: petID, Points: points}
}
