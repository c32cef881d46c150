package middleware

import (
	"bytes"
	"net/http"
)

// responseWriter captures the status code and, when capture is set, a
// bounded copy of the body.
type responseWriter struct {
	http.ResponseWriter
	status  int
	capture bool
	body    bytes.Buffer
}

func newResponseWriter(w http.ResponseWriter, capture bool) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK, capture: capture}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.capture && rw.body.Len() < maxLoggedBody {
		room := maxLoggedBody - rw.body.Len()
		if len(b) < room {
			room = len(b)
		}
		rw.body.Write(b[:room])
	}
	return rw.ResponseWriter.Write(b)
}
