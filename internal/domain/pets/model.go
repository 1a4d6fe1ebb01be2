package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat, other
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesOther Species = "other"
)

func (s Species) Valid() bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesOther:
		return true
	}
	return false
}

// Pet representa el perfil básico de una mascota registrada en el sistema.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species
	Breed   string

	AgeInMonths *int
	WeightKg    *float64
	AvatarURL   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AgeInYears: años completos, 0 si no se conoce la edad.
func (p Pet) AgeInYears() int {
	if p.AgeInMonths == nil || *p.AgeInMonths <= 0 {
		return 0
	}
	return *p.AgeInMonths / 12
}
