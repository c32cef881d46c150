package middleware

import (
	"context"

	"github.com/citynect/property-backend/models"
)

type ContextKey string

const (
	UserIDKey     = ContextKey("userID")
	RoleKey       = ContextKey("role")
	ClientInfoKey = ContextKey("clientInfo")
)

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}

// WithUser stores the authenticated caller on ctx.
func WithUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, RoleKey, role)
}

// ClientInfoFromContext returns the metadata captured by ClientInfoMiddleware,
// or the zero value when the middleware did not run.
func ClientInfoFromContext(ctx context.Context) models.ClientInfo {
	info, _ := ctx.Value(ClientInfoKey).(models.ClientInfo)
	return info
}

func WithClientInfo(ctx context.Context, info models.ClientInfo) context.Context {
	return context.WithValue(ctx, ClientInfoKey, info)
}
