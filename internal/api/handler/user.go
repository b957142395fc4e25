package handler

import (
	"net/http"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/domain"
	"github.com/daposadap9/prueba-tecnica-fullstack/internal/usecases/users"
	"github.com/daposadap9/prueba-tecnica-fullstack/pkg/apiErrors"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

func ListUsers(service users.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ListUsers")

		list, err := service.List(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "Error al obtener usuarios")
			return
		}

		writeJSON(w, r, http.StatusOK, list)
	}
}

func GetUser(service users.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID de usuario no enviado", nil)
			return
		}

		user, err := service.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err, "Error al obtener usuario")
			return
		}

		writeJSON(w, r, http.StatusOK, user)
	}
}

func CreateUser(service users.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateUser")

		claims, ok := session(w, r)
		if !ok {
			return
		}

		var req domain.CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Error al decodificar la solicitud", nil)
			return
		}

		user, err := service.Create(r.Context(), claims, req)
		if err != nil {
			writeServiceError(w, r, err, "Error al crear usuario")
			return
		}

		writeJSON(w, r, http.StatusCreated, user)
	}
}

func UpdateUser(service users.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateUser")

		claims, ok := session(w, r)
		if !ok {
			return
		}

		var req domain.UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Error al decodificar la solicitud", nil)
			return
		}
		req.ID = httprouter.ParamsFromContext(r.Context()).ByName("id")

		user, err := service.Update(r.Context(), claims, req)
		if err != nil {
			writeServiceError(w, r, err, "Error al actualizar usuario")
			return
		}

		writeJSON(w, r, http.StatusOK, user)
	}
}

func DeleteUser(service users.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - DeleteUser")

		claims, ok := session(w, r)
		if !ok {
			return
		}

		user, err := service.Delete(r.Context(), claims, httprouter.ParamsFromContext(r.Context()).ByName("id"))
		if err != nil {
			writeServiceError(w, r, err, "Error al eliminar usuario")
			return
		}

		writeJSON(w, r, http.StatusOK, user)
	}
}
