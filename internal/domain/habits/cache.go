package habits

import "context"

// TrendCache guarda la tendencia calculada para un día concreto.
// Un valor guardado para otro día se considera ausente.
//
// Cada Invalidate avanza la generación del pet. Get devuelve la generación
// vigente (también en un miss) y Set la graba junto al reporte; un reporte
// grabado con una generación vieja no se sirve. Así una lectura que empezó
// antes de un check-in no deja en cache una tendencia sin ese check-in.
type TrendCache interface {
	Get(ctx context.Context, petID, day string) (report TrendReport, gen int64, ok bool, err error)
	Set(ctx context.Context, day string, gen int64, report TrendReport) error
	Invalidate(ctx context.Context, petID string) error
}

type nopCache struct{}

func (nopCache) Get(context.Context, string, string) (TrendReport, int64, bool, error) {
	return TrendReport{}, 0, false, nil
}
func (nopCache) Set(context.Context, string, int64, TrendReport) error { return nil }
func (nopCache) Invalidate(context.Context, string) error              { return nil }
