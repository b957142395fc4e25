package reporting

import (
	"errors"
	"fmt"

	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/apiErrors"
)

var (
	ErrNothingToExport  = errors.New("no hay movimientos para exportar")
	ErrInvalidRange     = errors.New("rango de fechas inválido")
	ErrInvalidTimeFrame = errors.New("periodo inválido")
	ErrInvalidFormat    = errors.New("formato de exportación inválido")
	ErrInvalidMode      = errors.New("modo de exportación inválido")
	ErrMovementsFetch   = errors.New("error al obtener movimientos")
)

// ReportError lleva el código de API y el mensaje que se muestra al usuario
type ReportError struct {
	Err     error
	Code    string
	Details string
}

func (e *ReportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

func NewReportError(baseErr error, code string, details string) *ReportError {
	return &ReportError{
		Err:     baseErr,
		Code:    code,
		Details: details,
	}
}

func invalidRangeError(message string) *ReportError {
	return NewReportError(ErrInvalidRange, apiErrors.ErrInvalidRange, message)
}
