package controllers

import (
	"net/http"

	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/services"
	"github.com/citynect/property-backend/utils"
	"github.com/gorilla/mux"
)

func FilterProperties(properties *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.FilterRequest
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

		page, size := pageParams(r)
		result, err := properties.Filter(r.Context(), req, page, size)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, result)
	}
}

func SearchTitles(properties *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		titles, err := properties.Titles(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, titles)
	}
}

func ToggleSavedProperty(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.UserPropertyRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		userID, err := actingUser(r, req.UserID)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		saved, err := users.ToggleSaved(r.Context(), userID, req.PropID)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, saved)
	}
}

func ContactProperty(properties *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.UserPropertyRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		userID, err := actingUser(r, req.UserID)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		details, err := properties.Contact(r.Context(), userID, req.PropID)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, details)
	}
}

// UpdatePropertyStatus takes the property id from the path; a propId in
// the body must agree with it.
func UpdatePropertyStatus(properties *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propID := mux.Vars(r)["id"]

		var req models.StatusChangeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		if req.PropID != "" && req.PropID != propID {
			utils.WriteError(w, r, utils.Validation("propId does not match the path"))
			return
		}
		userID, err := actingUser(r, req.UserID)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		change, err := properties.UpdateStatus(r.Context(), userID, propID, req.NewStatus)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, change)
	}
}

func AddRemark(properties *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RemarkRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		userID, err := actingUser(r, req.UserID)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		remark, err := properties.AddOrUpdateRemark(r.Context(), userID, req.PropID, req.Remark)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, remark)
	}
}
