package handler

import (
	"net/http"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/api/handler/router"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/authenticating"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/movements"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/reporting"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/users"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service users.UserService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Movements(service movements.MovementService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/movements",
			Method:      http.MethodGet,
			Handler:     ListMovements(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/movements",
			Method:      http.MethodPost,
			Handler:     CreateMovement(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Reports(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/reports/movements",
			Method:      http.MethodGet,
			Handler:     GetMovementReport(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/reports/movements/chart",
			Method:      http.MethodGet,
			Handler:     GetMovementChart(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/reports/movements/export",
			Method:      http.MethodGet,
			Handler:     ExportMovements(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func IdentitySync(service IdentitySyncer) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/identity-sync/run",
			Method:      http.MethodPost,
			Handler:     RunIdentitySync(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/identity-sync/status",
			Method:      http.MethodGet,
			Handler:     GetIdentitySyncStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
