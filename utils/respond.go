package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/citynect/property-backend/models"
)

// WriteJSON answers with the success envelope.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, models.APIResponse{Success: true, Data: data})
}

// WriteError maps err to a status and a client-safe message. Unclassified
// errors are logged with their detail and answered generically.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	WriteErrorMessage(w, status, msg)
}

func WriteErrorMessage(w http.ResponseWriter, status int, msg string) {
	write(w, status, models.APIResponse{Success: false, Error: msg})
}

func write(w http.ResponseWriter, status int, body models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
