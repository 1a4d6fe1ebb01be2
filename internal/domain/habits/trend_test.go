package habits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTrend_NoEntries(t *testing.T) {
	r := BuildTrend("pet-1", nil, "2024-10-20")

	assert.Equal(t, "pet-1", r.PetID)
	require.Len(t, r.Points, TrendDays)
	assert.Equal(t, "2024-10-14", r.Points[0].Date)
	assert.Equal(t, "2024-10-20", r.Points[6].Date)
	for _, p := range r.Points {
		assert.Zero(t, p.FeedingGrams)
		assert.Zero(t, p.ExerciseMinutes)
		assert.Zero(t, p.WeightKg)
	}
}

func TestBuildTrend_FillsMatchingDays(t *testing.T) {
	grams, minutes := 320, 30
	weight := 11.2
	entries := []Entry{
		{Date: "2024-10-20", FeedingGrams: &grams, ExerciseMinutes: &minutes},
		{Date: "2024-10-17", WeightKg: &weight},
		// fuera de la ventana
		{Date: "2024-10-01", FeedingGrams: &grams},
	}

	r := BuildTrend("pet-1", entries, "2024-10-20")
	require.Len(t, r.Points, TrendDays)

	for i, p := range r.Points {
		switch p.Date {
		case "2024-10-20":
			assert.Equal(t, 320, p.FeedingGrams)
			assert.Equal(t, 30, p.ExerciseMinutes)
			assert.Zero(t, p.WeightKg)
		case "2024-10-17":
			assert.Zero(t, p.FeedingGrams)
			assert.InDelta(t, 11.2, p.WeightKg, 0.0001)
		default:
			assert.Zero(t, p.FeedingGrams, "point %d", i)
			assert.Zero(t, p.ExerciseMinutes, "point %d", i)
		}
		if i > 0 {
			assert.Less(t, r.Points[i-1].Date, p.Date)
		}
	}
}

func TestBuildTrend_CrossesMonthBoundary(t *testing.T) {
	r := BuildTrend("pet-1", nil, "2024-03-03")
	require.Len(t, r.Points, TrendDays)
	assert.Equal(t, "2024-02-26", r.Points[0].Date)
	assert.Equal(t, "2024-02-29", r.Points[3].Date)
}

func TestComputeAnalytics(t *testing.T) {
	minutes := 60
	var entries []Entry
	for _, d := range []string{"2024-10-19", "2024-10-18", "2024-10-17", "2024-10-10"} {
		entries = append(entries, Entry{Date: d, ExerciseMinutes: &minutes})
	}
	report := BuildTrend("pet-1", entries, "2024-10-20")

	a := computeAnalytics("pet-1", entries, report, "2024-10-20")

	// hoy vacío: la racha arranca ayer
	assert.Equal(t, 3, a.StreakDays)
	assert.Equal(t, 29, a.ConsistencyScore)
	// 3 días x 60 min / 7 = 25.7 min => 43
	assert.Equal(t, 43, a.CompanionshipScore)
	assert.Contains(t, a.Insights, "Today's check-in is still pending")
}

func TestComputeAnalytics_Empty(t *testing.T) {
	a := computeAnalytics("pet-1", nil, BuildTrend("pet-1", nil, "2024-10-20"), "2024-10-20")

	assert.Zero(t, a.StreakDays)
	assert.Zero(t, a.ConsistencyScore)
	assert.Zero(t, a.CompanionshipScore)
	assert.NotEmpty(t, a.Insights)
}
