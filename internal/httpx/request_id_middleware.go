package httpx

import (
	"net/http"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// inboundRequestID returns the caller's request id when it is safe to echo
// into headers and log lines: 1 to 128 characters of [A-Za-z0-9._:-].
func inboundRequestID(r *http.Request) (string, bool) {
	id := r.Header.Get(requestIDHeader)
	if id == "" || len(id) > 128 {
		return "", false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return "", false
		}
	}
	return id, true
}

// RequestIDMiddleware tags every request with an id, reusing a well-formed
// X-Request-Id from the caller and generating a UUID otherwise.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := inboundRequestID(r)
		if !ok {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ContextWithRequestID(r.Context(), id)))
	})
}
