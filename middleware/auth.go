package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/utils"
)

// Auth validates the bearer token and stores the caller's id and role on the
// request context.
func Auth(jwtKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenHeader := r.Header.Get("Authorization")
			if tokenHeader == "" {
				slog.Debug("missing Authorization header", "method", r.Method, "path", r.URL.Path)
				utils.WriteErrorMessage(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			tokenParts := strings.Split(tokenHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				utils.WriteErrorMessage(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			claims, err := utils.ValidateJWT(jwtKey, tokenParts[1])
			if err != nil {
				slog.Debug("rejected token", "error", err)
				utils.WriteErrorMessage(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			role := claims.Role
			if role == "" {
				role = models.RoleUser
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID, role)))
		})
	}
}

// RequireRole must run after Auth.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				utils.WriteErrorMessage(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
