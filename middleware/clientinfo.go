package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/citynect/property-backend/models"
	"github.com/mssola/useragent"
)

// ClientInfoMiddleware parses the caller's address and user agent once per
// request and stores them on the request context.
func ClientInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithClientInfo(r.Context(), ParseClientInfo(r))))
	})
}

func ParseClientInfo(r *http.Request) models.ClientInfo {
	raw := r.UserAgent()
	info := models.ClientInfo{IP: ClientIP(r), UserAgent: raw}
	if raw == "" {
		return info
	}

	ua := useragent.New(raw)
	info.Browser, _ = ua.Browser()
	info.OS = ua.OS()
	switch {
	case ua.Bot():
		info.Device = "Bot"
	case ua.Mobile():
		info.Device = "Mobile"
	default:
		info.Device = "Desktop"
	}
	return info
}

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// socket address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
