package handler

import (
	"net/http"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/authenticating"
	"github.com/sirupsen/logrus"
)

type meResponse struct {
	Session *domain.Claims `json:"session"`
	User    *domain.User   `json:"user"`
}

// GetMe devuelve la sesión actual junto con el usuario guardado
func GetMe(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetMe")

		claims, ok := session(w, r)
		if !ok {
			return
		}

		user, err := service.Me(r.Context(), claims)
		if err != nil {
			writeServiceError(w, r, err, "Error al obtener el usuario")
			return
		}

		writeJSON(w, r, http.StatusOK, meResponse{Session: claims, User: user})
	}
}
