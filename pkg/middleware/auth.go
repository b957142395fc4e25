package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/authenticating"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/apiErrors"
)

type contextKey string

const (
	ContextKeyUser contextKey = "user"
)

var publicPaths = map[string]bool{
	"/healthcheck": true,
}

// TokenValidator valida el token de sesión emitido por el frontend
type TokenValidator interface {
	ValidateToken(tokenString string) (*domain.Claims, error)
}

func AuthMiddleware(authService TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "El encabezado Authorization es obligatorio", nil)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader || tokenString == "" {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Se requiere un token Bearer", nil)
				return
			}

			claims, err := authService.ValidateToken(tokenString)
			if err != nil {
				code := apiErrors.ErrInvalidToken
				var authErr *authenticating.AuthError
				if errors.As(err, &authErr) {
					code = authErr.Code
				}
				apiErrors.WriteError(w, code, "No autenticado", nil)
				return
			}

			ctx := WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithClaims(ctx context.Context, claims *domain.Claims) context.Context {
	return context.WithValue(ctx, ContextKeyUser, claims)
}

// ClaimsFromContext devuelve la sesión guardada por AuthMiddleware
func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyUser).(*domain.Claims)
	return claims, ok && claims != nil
}
