package users

import (
	"errors"
	"fmt"
)

var (
	ErrMissingFields     = errors.New("campos obligatorios ausentes")
	ErrInvalidRole       = errors.New("rol inválido")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrUserAlreadyExists = errors.New("el usuario ya existe")
	ErrForbiddenRole     = errors.New("no autorizado a cambiar el rol")
	ErrForbiddenDelete   = errors.New("no autorizado a eliminar usuarios")
	ErrIdentityProvider  = errors.New("error en el proveedor de identidad")
	ErrDatabaseOperation = errors.New("error de base de datos")
)

// UserError es un error con el código de API y el mensaje para el usuario
type UserError struct {
	Err     error
	Code    string
	UserID  string
	Details string
}

func (e *UserError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func NewUserError(err error, code string, details string) *UserError {
	return &UserError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func NewUserErrorWithID(err error, code string, userID string, details string) *UserError {
	return &UserError{
		Err:     err,
		Code:    code,
		UserID:  userID,
		Details: details,
	}
}
