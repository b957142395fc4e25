package authenticating

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidToken          = errors.New("token inválido")
	ErrExpiredToken          = errors.New("token expirado")
	ErrMissingSecret         = errors.New("NEXTAUTH_SECRET no configurado")
	ErrInsufficientPrivilege = errors.New("privilegios insuficientes")
	ErrUserNotFound          = errors.New("usuario de la sesión no encontrado")
	ErrDatabaseOperation     = errors.New("error de base de datos")
)

// AuthError es un error de sesión con el código de API
type AuthError struct {
	Err     error
	Code    string
	UserID  string
	Details string
}

func (e *AuthError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsAuthorizationError indica si el error corresponde a una sesión inválida o sin permisos
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrInsufficientPrivilege) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken)
}

func NewAuthError(err error, code string, details string) *AuthError {
	return &AuthError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func NewAuthErrorWithUserID(err error, code string, userID string, details string) *AuthError {
	return &AuthError{
		Err:     err,
		Code:    code,
		UserID:  userID,
		Details: details,
	}
}
