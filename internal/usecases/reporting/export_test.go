package reporting

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testLayout = "2/1/2006"

func threeWindowMovements() []domain.Movement {
	return []domain.Movement{
		movement("hoy", "2024-03-20", 100, domain.TipoIngreso),
		movement("hace-10-dias", "2024-03-10", 40, domain.TipoEgreso),
		movement("mes-pasado", "2024-02-15", 25, domain.TipoIngreso),
	}
}

func TestThreeWindowSnapshot(t *testing.T) {
	snapshot := ThreeWindowSnapshot(threeWindowMovements(), testNow, testLayout)

	require.Len(t, snapshot.Sheets, 3)
	assert.Equal(t, "Diario", snapshot.Sheets[0].Name)
	assert.Equal(t, "Semanal", snapshot.Sheets[1].Name)
	assert.Equal(t, "Mensual", snapshot.Sheets[2].Name)

	assert.Len(t, snapshot.Sheets[0].Rows, 1)
	assert.Len(t, snapshot.Sheets[1].Rows, 1)
	assert.Len(t, snapshot.Sheets[2].Rows, 2)

	for _, sheet := range snapshot.Sheets {
		for _, row := range sheet.Rows {
			assert.NotEqual(t, "mes-pasado", row.ID)
		}
	}
}

func TestBuildSheetRows(t *testing.T) {
	rows := BuildSheetRows([]domain.Movement{
		movement("1", "2024-03-05", 12.5, domain.TipoIngreso),
		movement("2", "basura", 3, domain.TipoEgreso),
	}, testLayout)

	assert.Equal(t, []SheetRow{
		{ID: "1", Concepto: "concepto 1", Monto: 12.5, Fecha: "5/3/2024", Tipo: "ingreso"},
		{ID: "2", Concepto: "concepto 2", Monto: 3, Fecha: "", Tipo: "egreso"},
	}, rows)
}

func TestWriteXLSX_ThreeSheetsOmitsEmpty(t *testing.T) {
	movements := []domain.Movement{movement("hace-10-dias", "2024-03-10", 40, domain.TipoEgreso)}
	snapshot := ThreeWindowSnapshot(movements, testNow, testLayout)

	content, err := WriteXLSX(snapshot)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Mensual"}, f.GetSheetList())

	rows, err := f.GetRows("Mensual")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ID", "Concepto", "Monto", "Fecha", "Tipo"}, rows[0])
	assert.Equal(t, []string{"hace-10-dias", "concepto hace-10-dias", "40", "10/3/2024", "egreso"}, rows[1])
}

func TestWriteXLSX_AllEmpty(t *testing.T) {
	snapshot := ThreeWindowSnapshot([]domain.Movement{}, testNow, testLayout)

	_, err := WriteXLSX(snapshot)

	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestWriteXLSX_SelectedKeepsEmptySheet(t *testing.T) {
	snapshot := SelectedSnapshot([]domain.Movement{}, domain.TimeFrameDiario, domain.CustomRange{}, testNow, testLayout)

	content, err := WriteXLSX(snapshot)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Seleccionado"}, f.GetSheetList())
}

func TestWriteCSV_Selected(t *testing.T) {
	snapshot := SelectedSnapshot(threeWindowMovements(), domain.TimeFrameMensual, domain.CustomRange{}, testNow, testLayout)

	content, err := WriteCSV(snapshot)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"ID", "Concepto", "Monto", "Fecha", "Tipo"},
		{"hoy", "concepto hoy", "100", "20/3/2024", "ingreso"},
		{"hace-10-dias", "concepto hace-10-dias", "40", "10/3/2024", "egreso"},
	}, records)
}

func TestWriteCSV_ThreeSheetsTagsPeriod(t *testing.T) {
	snapshot := ThreeWindowSnapshot(threeWindowMovements(), testNow, testLayout)

	content, err := WriteCSV(snapshot)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 5)
	assert.Equal(t, []string{"Periodo", "ID", "Concepto", "Monto", "Fecha", "Tipo"}, records[0])
	assert.Equal(t, "Diario", records[1][0])
	assert.Equal(t, "Semanal", records[2][0])
	assert.Equal(t, "Mensual", records[3][0])
	assert.Equal(t, "Mensual", records[4][0])
}

func TestWriteExport_FileNames(t *testing.T) {
	snapshot := ThreeWindowSnapshot(threeWindowMovements(), testNow, testLayout)

	file, err := WriteExport(snapshot, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "movimientos_tresHojas.csv", file.Name)
	assert.Equal(t, "text/csv;charset=utf-8;", file.ContentType)

	selected := SelectedSnapshot(threeWindowMovements(), domain.TimeFrameDiario, domain.CustomRange{}, testNow, testLayout)
	file, err = WriteExport(selected, ExportFormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "movimientos_seleccionado.xlsx", file.Name)

	_, err = WriteExport(selected, ExportFormat("pdf"))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
