package controllers

import (
	"net/http"

	"github.com/citynect/property-backend/middleware"
	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/services"
	"github.com/citynect/property-backend/utils"
	"github.com/gorilla/mux"
)

// MaintenanceResult reports how many records a sweep touched.
type MaintenanceResult struct {
	Job      string `json:"job"`
	Affected int64  `json:"affected"`
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, "ok")
	}
}

func PropertyCounts(properties *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := properties.Counts(r.Context())
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, counts)
	}
}

func ActivateDemo(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.DemoAccountRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		if req.ActivatedBy == "" {
			req.ActivatedBy, _ = middleware.UserIDFromContext(r.Context())
		}

		msg, err := users.ActivateDemo(r.Context(), req)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, msg)
	}
}

func ActivatePremium(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.PremiumRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		if req.AdminID == "" {
			req.AdminID, _ = middleware.UserIDFromContext(r.Context())
		}

		msg, err := users.ActivatePremium(r.Context(), req)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, msg)
	}
}

func ResetUserPassword(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.AdminPasswordRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		if req.AdminID == "" {
			req.AdminID, _ = middleware.UserIDFromContext(r.Context())
		}

		msg, err := users.ResetPasswordByAdmin(r.Context(), req)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, msg)
	}
}

func SetPropertyLifecycle(properties *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propID := mux.Vars(r)["id"]

		var req models.LifecycleRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		if err := properties.SetLifecycleStatus(r.Context(), propID, req.Status); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, models.StatusChange{ID: propID, Status: req.Status})
	}
}

func DeleteProperty(properties *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propID := mux.Vars(r)["id"]

		if err := properties.SoftDelete(r.Context(), propID); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, "Property deleted successfully")
	}
}

func RunMaintenance(maintenance *services.MaintenanceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job := mux.Vars(r)["job"]

		affected, err := maintenance.Run(r.Context(), job)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, MaintenanceResult{Job: job, Affected: affected})
	}
}
