package movements

import (
	"errors"
	"fmt"
)

var (
	ErrForbidden         = errors.New("no autorizado para crear movimientos para otros usuarios")
	ErrInvalidAmount     = errors.New("monto inválido")
	ErrInvalidTipo       = errors.New("tipo de movimiento inválido")
	ErrMissingFields     = errors.New("campos obligatorios ausentes")
	ErrUserNotFound      = errors.New("usuario del movimiento no encontrado")
	ErrDatabaseOperation = errors.New("error de base de datos")
)

// MovementError es un error con el código de API y el mensaje para el usuario
type MovementError struct {
	Err     error
	Code    string
	Details string
}

func (e *MovementError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *MovementError) Unwrap() error {
	return e.Err
}

func NewMovementError(err error, code string, details string) *MovementError {
	return &MovementError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
