package utils

import (
	"fmt"
	"time"
)

// Clock devuelve la hora actual en la zona horaria configurada
type Clock func() time.Time

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// ParseCalendarDate construye la medianoche local de una fecha YYYY-MM-DD a partir de sus
// componentes, sin pasar por UTC.
func ParseCalendarDate(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("fecha vacía")
	}

	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, loc), nil
}

// EndOfDay devuelve el último milisegundo del día calendario de t
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// StartOfDay devuelve la medianoche del día calendario de t
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// LoadLocation acepta "Local" o un nombre IANA
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
