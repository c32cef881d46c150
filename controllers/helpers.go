package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/citynect/property-backend/middleware"
	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/utils"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return utils.Validation("Invalid request body")
	}
	return nil
}

// pageParams reads page and size from the query string. Missing or
// malformed values fall back to zero and are normalised by the service.
func pageParams(r *http.Request) (int, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	return page, size
}

// actingUser resolves the user a request acts on. Users may only act on
// themselves; admins may name anyone. An empty claim means the caller.
func actingUser(r *http.Request, claimed string) (string, error) {
	caller, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return "", utils.Unauthorized("User ID missing in context")
	}
	if claimed == "" || claimed == caller {
		return caller, nil
	}
	if middleware.RoleFromContext(r.Context()) == models.RoleAdmin {
		return claimed, nil
	}
	return "", utils.Forbidden("Cannot act on behalf of another user")
}
