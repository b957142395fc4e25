package middleware

import (
	"net/http"
	"slices"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/apiErrors"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/log"
)

// RoleMiddleware restringe la ruta a los roles indicados
func RoleMiddleware(allowedRoles []domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userClaims, ok := ClaimsFromContext(r.Context())
			if !ok {
				log.ForContext(r.Context()).Warn("Intento de acceso sin autenticación")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuario no autenticado", nil)
				return
			}

			if !slices.Contains(allowedRoles, userClaims.Role) {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"user_id":   userClaims.UserID,
					"user_role": string(userClaims.Role),
				}).Warn("Acceso denegado")
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "No tienes permiso para acceder a este recurso", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func AdminOnly() func(http.Handler) http.Handler {
	return RoleMiddleware([]domain.Role{domain.RoleAdmin})
}

// AllRoles permite cualquier sesión válida
func AllRoles() func(http.Handler) http.Handler {
	return RoleMiddleware([]domain.Role{domain.RoleAdmin, domain.RoleUser})
}
