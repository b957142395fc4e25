package reporting

import "time"

const DefaultMaxRangeDays = 92

const (
	MsgRangeTooLong   = "El rango no debe ser mayor a 3 meses."
	MsgRangeEndBefore = "La fecha final no puede ser anterior a la fecha inicial."
)

// ValidateCustomRange devuelve el mensaje para el usuario, vacío si el rango es aceptable
// o si falta alguno de los límites.
func ValidateCustomRange(start, end string) string {
	return validateCustomRange(start, end, DefaultMaxRangeDays)
}

func validateCustomRange(start, end string, maxDays int) string {
	if start == "" || end == "" {
		return ""
	}

	// Los días se cuentan entre medianoches UTC de cada fecha
	startDate, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return ""
	}
	endDate, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return ""
	}

	diffDays := int(endDate.Sub(startDate).Hours() / 24)
	if diffDays > maxDays {
		return MsgRangeTooLong
	}
	if endDate.Before(startDate) {
		return MsgRangeEndBefore
	}

	return ""
}
