package habits

import "context"

type Repository interface {
	// Upsert inserta o reemplaza la entrada de (PetID, Date) de forma atómica
	// y devuelve la fila resultante.
	Upsert(ctx context.Context, e Entry) (Entry, error)
	// ListRecent devuelve hasta limit entradas, fecha descendente.
	ListRecent(ctx context.Context, petID string, limit int) ([]Entry, error)
}
