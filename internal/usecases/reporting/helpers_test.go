package reporting

import (
	"time"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
)

var testZone = time.FixedZone("COT", -5*60*60)

// miércoles; la semana va del domingo 17 al sábado 23 de marzo
var testNow = time.Date(2024, 3, 20, 12, 0, 0, 0, testZone)

func movement(id, fecha string, monto float64, tipo domain.Tipo) domain.Movement {
	return domain.Movement{
		ID:       id,
		Concepto: "concepto " + id,
		Monto:    monto,
		Fecha:    domain.ParseFecha(fecha, testNow),
		Tipo:     tipo,
		UserID:   "user-1",
	}
}

func ids(movements []domain.Movement) []string {
	out := make([]string, 0, len(movements))
	for _, m := range movements {
		out = append(out, m.ID)
	}
	return out
}
