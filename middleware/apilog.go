package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/citynect/property-backend/models"
	"github.com/google/uuid"
)

const (
	maxLoggedBody  = 64 << 10
	apiLogTimeout  = 5 * time.Second
	redactedValue  = "[REDACTED]"
	requestIDField = "X-Request-ID"
)

type APILogStore interface {
	InsertAPILog(ctx context.Context, entry *models.APILog) error
}

// APILogger persists every request and response pair. Writes happen off the
// request path; failures are logged and never affect the response.
func APILogger(store APILogStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			w.Header().Set(requestIDField, requestID)

			var payload []byte
			if r.Body != nil {
				payload, _ = io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
				r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(payload), r.Body))
			}

			rw := newResponseWriter(w, true)
			next.ServeHTTP(rw, r)

			entry := &models.APILog{
				RequestID:       requestID,
				HTTPMethod:      r.Method,
				RequestURL:      r.URL.RequestURI(),
				Description:     fmt.Sprintf("%s %s log", r.Method, r.URL.Path),
				RequestParams:   r.URL.Query(),
				RequestPayload:  redact(payload),
				ResponsePayload: redact(rw.body.Bytes()),
				ResponseStatus:  rw.status,
				CreatedAt:       time.Now(),
			}
			if rw.status >= 400 {
				entry.ErrorMessage = errorMessage(rw.body.Bytes())
			}

			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), apiLogTimeout)
				defer cancel()
				if err := store.InsertAPILog(ctx, entry); err != nil {
					slog.Error("error saving API log", "requestId", requestID, "error", err)
				}
			}()
		})
	}
}

// redact blanks credentials: any field whose name mentions a password, and
// session tokens. Bodies that are not JSON objects are dropped.
func redact(payload []byte) string {
	if len(payload) == 0 {
		return ""
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return ""
	}
	redactFields(doc)
	out, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	return string(out)
}

func redactFields(doc map[string]interface{}) {
	for k, v := range doc {
		if sensitive(k) {
			doc[k] = redactedValue
			continue
		}
		redactValue(v)
	}
}

func redactValue(v interface{}) {
	switch v := v.(type) {
	case map[string]interface{}:
		redactFields(v)
	case []interface{}:
		for _, item := range v {
			redactValue(item)
		}
	}
}

func sensitive(key string) bool {
	key = strings.ToLower(key)
	return strings.Contains(key, "password") || key == "token"
}

func errorMessage(body []byte) string {
	var resp models.APIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return resp.Error
}
