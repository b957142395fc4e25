package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FechaKind identifica qué forma tenía la fecha almacenada en un movimiento
type FechaKind int

const (
	FechaInvalid FechaKind = iota
	FechaDateOnly
	FechaDateTime
	FechaEpochSeconds
	FechaEpochMillis
)

// Valores numéricos menores a este umbral se interpretan como segundos epoch
const epochSecondsThreshold = 10_000_000_000

// Máximo absoluto de milisegundos representable por una fecha del cliente web
const maxEpochMillis = 8.64e15

var dateOnlyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Fecha es la fecha de un movimiento resuelta una única vez al leerla del almacenamiento.
// Raw conserva el texto original, que es lo que viaja por la API.
type Fecha struct {
	Raw  string
	Kind FechaKind
	at   time.Time
}

// ParseFecha resuelve el texto almacenado en la zona horaria de now.
// Las fechas sin zona explícita usan el desplazamiento UTC de now, no el de la propia fecha.
func ParseFecha(raw string, now time.Time) Fecha {
	f := Fecha{Raw: raw, Kind: FechaInvalid}
	loc := now.Location()
	value := strings.TrimSpace(raw)

	switch {
	case value == "":
		return f
	case dateOnlyPattern.MatchString(value):
		t, ok := calendarDate(value, loc)
		if !ok {
			return f
		}
		f.Kind, f.at = FechaDateOnly, t
	case strings.Contains(value, "-") && strings.Contains(value, ":"):
		t, ok := parseDateTime(value, now)
		if !ok {
			return f
		}
		f.Kind, f.at = FechaDateTime, t
	default:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
			return f
		}

		kind := FechaEpochMillis
		ms := v
		if v < epochSecondsThreshold {
			kind = FechaEpochSeconds
			ms = v * 1000
		}
		if math.Abs(ms) > maxEpochMillis {
			return f
		}

		f.Kind, f.at = kind, time.UnixMilli(int64(math.Trunc(ms))).In(loc)
	}

	return f
}

func calendarDate(value string, loc *time.Location) (time.Time, bool) {
	year, _ := strconv.Atoi(value[0:4])
	month, _ := strconv.Atoi(value[5:7])
	day, _ := strconv.Atoi(value[8:10])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}

	return t, true
}

func parseDateTime(value string, now time.Time) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.In(now.Location()), true
	}

	_, offset := now.Zone()
	zone := time.FixedZone("", offset)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, zone); err == nil {
			return t.In(now.Location()), true
		}
	}

	return time.Time{}, false
}

// Valid indica si la fecha pudo resolverse
func (f Fecha) Valid() bool {
	return f.Kind != FechaInvalid
}

// Time devuelve el instante resuelto
func (f Fecha) Time() (time.Time, bool) {
	return f.at, f.Valid()
}

// UnixMilli devuelve los milisegundos epoch, 0 si la fecha no es válida
func (f Fecha) UnixMilli() int64 {
	if !f.Valid() {
		return 0
	}
	return f.at.UnixMilli()
}

// Label devuelve el día calendario local en formato YYYY-MM-DD, vacío si la fecha no es válida
func (f Fecha) Label() string {
	if !f.Valid() {
		return ""
	}
	return f.at.Format(time.DateOnly)
}

// Format renderiza la fecha con el layout indicado, vacío si la fecha no es válida
func (f Fecha) Format(layout string) string {
	if !f.Valid() {
		return ""
	}
	return f.at.Format(layout)
}

func (f Fecha) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Raw)
}
