package health

import "time"

// Severity de una alergia.
// @Enum low, medium, high
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Intensity de un ejercicio. Mismos valores que Severity.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

type Vaccine struct {
	ID          string
	PetID       string
	Name        string
	Date        string // YYYY-MM-DD
	Clinic      string
	Vet         string
	Notes       string
	Effect      string
	Precautions string
	CreatedAt   time.Time
}

type Checkup struct {
	ID            string
	PetID         string
	Date          string // YYYY-MM-DD
	Clinic        string
	Vet           string
	Summary       string
	WeightKg      *float64
	Details       string
	ReportFileURL string
	CreatedAt     time.Time
}

type Allergy struct {
	ID        string
	PetID     string
	Allergen  string
	Reaction  string
	Severity  Severity
	Notes     string
	CreatedAt time.Time
}

type Exercise struct {
	ID              string
	PetID           string
	Date            string // YYYY-MM-DD
	Activity        string
	DurationMinutes int
	Intensity       Intensity
	CreatedAt       time.Time
}

// FeedingPlan: a lo sumo uno por mascota.
type FeedingPlan struct {
	PetID           string
	Food            string
	CaloriesPerMeal *int
	Schedule        []string // HH:MM
	Notes           string
	UpdatedAt       time.Time
}

// Profile agrega el perfil de la mascota con su historial clínico.
type Profile struct {
	PetID     string
	Name      string
	Species   string
	Breed     string
	AgeYears  int
	WeightKg  *float64
	AvatarURL string

	Vaccines    []Vaccine
	Checkups    []Checkup
	Allergies   []Allergy
	FeedingPlan FeedingPlan
	Exercises   []Exercise
}
