package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader is the inbound header honoured for correlation. Callers
// that already carry an id keep it; everyone else gets a fresh one.
const RequestIDHeader = "X-Request-ID"

// RequestID attaches a correlation id to the request context for logging and
// audit. It never writes the response header: envelope ids are minted at
// dispatch time by the gateway, independently of this value.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), id)))
	})
}
