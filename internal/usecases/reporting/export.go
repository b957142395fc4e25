package reporting

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
)

func (f ExportFormat) Valid() bool {
	return f == ExportFormatXLSX || f == ExportFormatCSV
}

func (f ExportFormat) ContentType() string {
	if f == ExportFormatCSV {
		return "text/csv;charset=utf-8;"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

var (
	sheetHeader  = []string{"ID", "Concepto", "Monto", "Fecha", "Tipo"}
	periodHeader = "Periodo"
)

// ExportFile es el archivo listo para entregarse como descarga
type ExportFile struct {
	Name        string
	ContentType string
	Content     []byte
}

func FileName(mode ExportMode, format ExportFormat) string {
	if mode == ExportModeThreeSheets {
		return "movimientos_tresHojas." + string(format)
	}
	return "movimientos_seleccionado." + string(format)
}

// WriteExport serializa el snapshot en el formato pedido
func WriteExport(snapshot Snapshot, format ExportFormat) (*ExportFile, error) {
	var (
		content []byte
		err     error
	)

	switch format {
	case ExportFormatXLSX:
		content, err = WriteXLSX(snapshot)
	case ExportFormatCSV:
		content, err = WriteCSV(snapshot)
	default:
		return nil, ErrInvalidFormat
	}
	if err != nil {
		return nil, err
	}

	return &ExportFile{
		Name:        FileName(snapshot.Mode, format),
		ContentType: format.ContentType(),
		Content:     content,
	}, nil
}

// WriteXLSX escribe una hoja por ventana. En la exportación de tres hojas las ventanas
// vacías se omiten; si todas lo están no hay nada que exportar.
func WriteXLSX(snapshot Snapshot) ([]byte, error) {
	sheets := make([]Sheet, 0, len(snapshot.Sheets))
	for _, sheet := range snapshot.Sheets {
		if snapshot.Mode == ExportModeThreeSheets && len(sheet.Rows) == 0 {
			continue
		}
		sheets = append(sheets, sheet)
	}
	if len(sheets) == 0 {
		return nil, ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return nil, fmt.Errorf("error al nombrar hoja %s: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("error al crear hoja %s: %w", sheet.Name, err)
		}

		if err := writeSheet(f, sheet); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error al generar xlsx: %w", err)
	}

	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	header := make([]interface{}, 0, len(sheetHeader))
	for _, h := range sheetHeader {
		header = append(header, h)
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("error al escribir encabezado de %s: %w", sheet.Name, err)
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		values := []interface{}{row.ID, row.Concepto, row.Monto, row.Fecha, row.Tipo}
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("error al escribir fila %d de %s: %w", i+1, sheet.Name, err)
		}
	}

	return nil
}

// WriteCSV concatena todas las hojas. En la exportación de tres hojas cada fila lleva
// primero la ventana a la que pertenece.
func WriteCSV(snapshot Snapshot) ([]byte, error) {
	tagged := snapshot.Mode == ExportModeThreeSheets

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	header := sheetHeader
	if tagged {
		header = append([]string{periodHeader}, sheetHeader...)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, sheet := range snapshot.Sheets {
		for _, row := range sheet.Rows {
			record := []string{
				row.ID,
				row.Concepto,
				strconv.FormatFloat(row.Monto, 'f', -1, 64),
				row.Fecha,
				row.Tipo,
			}
			if tagged {
				record = append([]string{sheet.Name}, record...)
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("error al generar csv: %w", err)
	}

	return buf.Bytes(), nil
}
