package users

import "time"

// User es la cuenta dueña de mascotas y autora del contenido de la comunidad.
type User struct {
	ID           string
	Name         string
	Email        string // siempre en minúsculas
	PasswordHash string
	CreatedAt    time.Time
}
