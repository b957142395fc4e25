package reporting

import (
	"time"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/utils"
)

// Window devuelve los límites inclusivos de la ventana en la zona horaria de now.
// ok es falso para ventanas desconocidas o rangos incompletos.
func Window(tf domain.TimeFrame, rng domain.CustomRange, now time.Time) (from, to time.Time, ok bool) {
	today := utils.StartOfDay(now)

	switch tf {
	case domain.TimeFrameDiario:
		return today, utils.EndOfDay(today), true
	case domain.TimeFrameSemanal:
		sunday := today.AddDate(0, 0, -int(today.Weekday()))
		return sunday, utils.EndOfDay(sunday.AddDate(0, 0, 6)), true
	case domain.TimeFrameMensual:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return first, utils.EndOfDay(first.AddDate(0, 1, -1)), true
	case domain.TimeFrameRango:
		start, err := utils.ParseCalendarDate(rng.Start, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		end, err := utils.ParseCalendarDate(rng.End, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		return start, utils.EndOfDay(end), true
	}

	return time.Time{}, time.Time{}, false
}

// FilterByTimeFrame devuelve, en el orden original, los movimientos cuya fecha cae en la
// ventana. Los movimientos sin fecha válida se descartan. La entrada no se modifica.
func FilterByTimeFrame(movements []domain.Movement, tf domain.TimeFrame, rng domain.CustomRange, now time.Time) []domain.Movement {
	filtered := make([]domain.Movement, 0, len(movements))

	from, to, ok := Window(tf, rng, now)
	if !ok {
		return filtered
	}

	for _, m := range movements {
		at, valid := m.Fecha.Time()
		if !valid {
			continue
		}
		if at.Before(from) || at.After(to) {
			continue
		}
		filtered = append(filtered, m)
	}

	return filtered
}
