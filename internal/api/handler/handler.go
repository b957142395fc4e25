package handler

import (
	"errors"
	"net/http"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/authenticating"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/movements"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/reporting"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/users"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/apiErrors"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/log"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/middleware"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Error al enviar respuesta")
	}
}

// writeServiceError traduce los errores tipados de los casos de uso al cuerpo de error de la API
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var (
		userErr     *users.UserError
		movementErr *movements.MovementError
		reportErr   *reporting.ReportError
		authErr     *authenticating.AuthError
	)

	switch {
	case errors.As(err, &userErr):
		apiErrors.WriteError(w, userErr.Code, userErr.Details, nil)
	case errors.As(err, &movementErr):
		apiErrors.WriteError(w, movementErr.Code, movementErr.Details, nil)
	case errors.As(err, &reportErr):
		apiErrors.WriteError(w, reportErr.Code, reportErr.Details, nil)
	case errors.As(err, &authErr):
		apiErrors.WriteError(w, authErr.Code, authErr.Details, nil)
	case errors.Is(err, reporting.ErrNothingToExport):
		apiErrors.WriteError(w, apiErrors.ErrNothingToExport, "", nil)
	default:
		log.ForContext(r.Context()).WithError(err).Error(fallback)
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
	}
}

// session devuelve la sesión o escribe 401 cuando falta
func session(w http.ResponseWriter, r *http.Request) (*domain.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuario no autenticado", nil)
		return nil, false
	}
	return claims, true
}
