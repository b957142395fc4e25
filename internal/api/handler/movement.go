package handler

import (
	"net/http"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/movements"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

func ListMovements(service movements.MovementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ListMovements")

		list, err := service.List(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "Error al obtener movimientos")
			return
		}

		writeJSON(w, r, http.StatusOK, list)
	}
}

func CreateMovement(service movements.MovementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateMovement")

		claims, ok := session(w, r)
		if !ok {
			return
		}

		var req domain.CreateMovementRequest
		decoder := json.NewDecoder(r.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Error al decodificar la solicitud", nil)
			return
		}

		movement, err := service.Create(r.Context(), claims, req)
		if err != nil {
			writeServiceError(w, r, err, "Error al crear movimiento")
			return
		}

		writeJSON(w, r, http.StatusCreated, movement)
	}
}
