package controllers

import (
	"net/http"

	"github.com/citynect/property-backend/middleware"
	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/services"
	"github.com/citynect/property-backend/utils"
)

func RegisterUser(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		user, err := users.Register(r.Context(), req, middleware.ClientInfoFromContext(r.Context()))
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusCreated, user)
	}
}

func LoginUser(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials models.LoginRequest
		if err := decodeJSON(w, r, &credentials); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		result, err := users.Login(r.Context(), credentials.Number, credentials.Password, middleware.ClientInfoFromContext(r.Context()))
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, result)
	}
}
