package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos de error expuestos al cliente
const (
	// Errores de sesión y permisos
	ErrUserNotFound          = "AUTH_003" // Usuario no encontrado
	ErrInvalidToken          = "AUTH_006" // Token inválido
	ErrExpiredToken          = "AUTH_007" // Token expirado
	ErrInsufficientPrivilege = "AUTH_008" // Privilegios insuficientes
	ErrUserAlreadyExists     = "AUTH_009" // Usuario ya existe

	// Errores de validación
	ErrInvalidRequest      = "VAL_001" // Solicitud inválida
	ErrMissingRequiredData = "VAL_002" // Datos obligatorios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de datos inválido

	// Errores de enrutamiento
	ErrNotFound         = "RTE_001" // Ruta inexistente
	ErrMethodNotAllowed = "RTE_002" // Método no soportado por la ruta

	// Errores de reportes
	ErrInvalidRange     = "REP_001" // Rango de fechas inválido
	ErrInvalidTimeFrame = "REP_002" // Periodo desconocido
	ErrNothingToExport  = "REP_003" // Sin movimientos para exportar

	// Errores del servidor
	ErrInternalServer    = "SRV_001" // Error interno del servidor
	ErrDatabaseOperation = "SRV_002" // Error de base de datos
	ErrExternalService   = "SRV_003" // Error en servicio externo
	ErrCommunication     = "SRV_004" // Error de comunicación
)

var httpStatusMap = map[string]int{
	ErrUserNotFound:          http.StatusNotFound,
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrUserAlreadyExists:     http.StatusConflict,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrNotFound:              http.StatusNotFound,
	ErrMethodNotAllowed:      http.StatusMethodNotAllowed,
	ErrInvalidRange:          http.StatusBadRequest,
	ErrInvalidTimeFrame:      http.StatusBadRequest,
	ErrNothingToExport:       http.StatusNoContent,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
	ErrExternalService:       http.StatusBadGateway,
	ErrCommunication:         http.StatusServiceUnavailable,
}

// APIError es el cuerpo de error estándar de la API
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Status devuelve el estado HTTP asociado al código
func Status(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escribe el error estándar en la respuesta HTTP.
// Los códigos sin cuerpo (204) sólo escriben el estado.
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status := Status(code)
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError crea un error de API a partir de un error Go
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Error desconocido",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
