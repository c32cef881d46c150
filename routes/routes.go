package routes

import (
	"net/http"

	"github.com/citynect/property-backend/controllers"
	"github.com/citynect/property-backend/middleware"
	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/services"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps carries everything the HTTP layer needs. APILogs and LoginLimiter are
// optional.
type Deps struct {
	Properties   *services.PropertyService
	Users        *services.UserService
	Maintenance  *services.MaintenanceService
	APILogs      middleware.APILogStore
	LoginLimiter *middleware.RateLimiter
	JWTKey       []byte
}

func Routes(router *mux.Router, d Deps) {
	router.Use(middleware.Metrics)

	standard := alice.New(middleware.RecoverPanic, middleware.RequestLogger, middleware.SecureHeaders, middleware.ClientInfoMiddleware)
	if d.APILogs != nil {
		standard = standard.Append(middleware.APILogger(d.APILogs))
	}
	authenticated := standard.Append(middleware.Auth(d.JWTKey))
	admin := authenticated.Append(middleware.RequireRole(models.RoleAdmin))

	router.Handle("/health", controllers.Health()).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Auth routes
	router.Handle("/api/auth/register", standard.ThenFunc(controllers.RegisterUser(d.Users))).Methods(http.MethodPost)
	router.Handle("/api/auth/login", standard.Append(d.LoginLimiter.Limit).ThenFunc(controllers.LoginUser(d.Users))).Methods(http.MethodPost)

	// Property routes
	router.Handle("/api/properties/filter", authenticated.ThenFunc(controllers.FilterProperties(d.Properties))).Methods(http.MethodPost)
	router.Handle("/api/properties/titles", authenticated.ThenFunc(controllers.SearchTitles(d.Properties))).Methods(http.MethodGet)
	router.Handle("/api/properties/save", authenticated.ThenFunc(controllers.ToggleSavedProperty(d.Users))).Methods(http.MethodPost)
	router.Handle("/api/properties/contact", authenticated.ThenFunc(controllers.ContactProperty(d.Properties))).Methods(http.MethodPost)
	router.Handle("/api/properties/remark", authenticated.ThenFunc(controllers.AddRemark(d.Properties))).Methods(http.MethodPost)
	router.Handle("/api/properties/{id}/status", authenticated.ThenFunc(controllers.UpdatePropertyStatus(d.Properties))).Methods(http.MethodPost)

	// User routes
	router.Handle("/api/users/{userId}", authenticated.ThenFunc(controllers.UserDetails(d.Users))).Methods(http.MethodGet)
	router.Handle("/api/users/{userId}/saved-properties", authenticated.ThenFunc(controllers.SavedProperties(d.Properties))).Methods(http.MethodGet)
	router.Handle("/api/users/{userId}/contacted-properties", authenticated.ThenFunc(controllers.ContactedProperties(d.Properties))).Methods(http.MethodGet)
	router.Handle("/api/suggestions", authenticated.ThenFunc(controllers.SubmitSuggestion(d.Properties))).Methods(http.MethodPost)

	// Admin routes
	router.Handle("/api/admin/properties/counts", admin.ThenFunc(controllers.PropertyCounts(d.Properties))).Methods(http.MethodGet)
	router.Handle("/api/admin/properties/{id}/lifecycle", admin.ThenFunc(controllers.SetPropertyLifecycle(d.Properties))).Methods(http.MethodPut)
	router.Handle("/api/admin/properties/{id}", admin.ThenFunc(controllers.DeleteProperty(d.Properties))).Methods(http.MethodDelete)
	router.Handle("/api/admin/accounts/demo", admin.ThenFunc(controllers.ActivateDemo(d.Users))).Methods(http.MethodPost)
	router.Handle("/api/admin/accounts/premium", admin.ThenFunc(controllers.ActivatePremium(d.Users))).Methods(http.MethodPost)
	router.Handle("/api/admin/users/password", admin.ThenFunc(controllers.ResetUserPassword(d.Users))).Methods(http.MethodPost)
	router.Handle("/api/admin/maintenance/{job}", admin.ThenFunc(controllers.RunMaintenance(d.Maintenance))).Methods(http.MethodPost)
}
