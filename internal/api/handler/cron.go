package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// IdentitySyncer expone la sincronización de identidades a los administradores
type IdentitySyncer interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

func RunIdentitySync(service IdentitySyncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunIdentitySync")

		if !service.TriggerManualSync() {
			writeJSON(w, r, http.StatusConflict, map[string]any{
				"success": false,
				"message": "Ya hay una sincronización en curso",
			})
			return
		}

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"success": true,
			"message": "Sincronización de identidades iniciada",
		})
	}
}

func GetIdentitySyncStatus(service IdentitySyncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, service.GetStatus())
	}
}
