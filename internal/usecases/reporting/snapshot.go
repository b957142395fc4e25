package reporting

import (
	"time"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
)

type ExportMode string

const (
	ExportModeSelected    ExportMode = "selected"
	ExportModeThreeSheets ExportMode = "three-sheets"
)

func (m ExportMode) Valid() bool {
	return m == ExportModeSelected || m == ExportModeThreeSheets
}

const selectedSheetName = "Seleccionado"

// SheetRow es una fila de exportación; Fecha ya viene renderizada con el layout configurado
type SheetRow struct {
	ID       string
	Concepto string
	Monto    float64
	Fecha    string
	Tipo     string
}

type Sheet struct {
	Name   string
	Period domain.TimeFrame
	Rows   []SheetRow
}

// Snapshot es el contenido a exportar antes de serializarlo
type Snapshot struct {
	Mode   ExportMode
	Sheets []Sheet
}

// Empty indica que ninguna hoja tiene filas
func (s Snapshot) Empty() bool {
	for _, sheet := range s.Sheets {
		if len(sheet.Rows) > 0 {
			return false
		}
	}
	return true
}

func BuildSheetRows(movements []domain.Movement, layout string) []SheetRow {
	rows := make([]SheetRow, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, SheetRow{
			ID:       m.ID,
			Concepto: m.Concepto,
			Monto:    m.Monto,
			Fecha:    m.Fecha.Format(layout),
			Tipo:     string(m.Tipo),
		})
	}
	return rows
}

// SelectedSnapshot exporta sólo la ventana elegida por el usuario, rango incluido
func SelectedSnapshot(movements []domain.Movement, tf domain.TimeFrame, rng domain.CustomRange, now time.Time, layout string) Snapshot {
	filtered := FilterByTimeFrame(movements, tf, rng, now)
	return Snapshot{
		Mode: ExportModeSelected,
		Sheets: []Sheet{
			{Name: selectedSheetName, Period: tf, Rows: BuildSheetRows(filtered, layout)},
		},
	}
}

// ThreeWindowSnapshot calcula diario, semanal y mensual de forma independiente; ignora la
// ventana seleccionada y el rango.
func ThreeWindowSnapshot(movements []domain.Movement, now time.Time, layout string) Snapshot {
	snapshot := Snapshot{Mode: ExportModeThreeSheets}
	for _, tf := range domain.FixedTimeFrames {
		filtered := FilterByTimeFrame(movements, tf, domain.CustomRange{}, now)
		snapshot.Sheets = append(snapshot.Sheets, Sheet{
			Name:   tf.Title(),
			Period: tf,
			Rows:   BuildSheetRows(filtered, layout),
		})
	}
	return snapshot
}
