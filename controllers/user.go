package controllers

import (
	"net/http"

	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/services"
	"github.com/citynect/property-backend/utils"
	"github.com/gorilla/mux"
)

func SavedProperties(properties *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actingUser(r, mux.Vars(r)["userId"])
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		page, size := pageParams(r)
		result, err := properties.SavedProperties(r.Context(), userID, page, size)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, result)
	}
}

func UserDetails(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actingUser(r, mux.Vars(r)["userId"])
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		details, err := users.Details(r.Context(), userID)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, details)
	}
}

func ContactedProperties(properties *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actingUser(r, mux.Vars(r)["userId"])
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		contacted, err := properties.ContactedProperties(r.Context(), userID)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, contacted)
	}
}

func SubmitSuggestion(properties *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SuggestionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		userID, err := actingUser(r, req.UserID)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		req.UserID = userID

		suggestion, err := properties.SubmitSuggestion(r.Context(), req)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusCreated, suggestion)
	}
}
