package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	// APIKeyHeader is the request header carrying the credential.
	APIKeyHeader = "X-API-Key"
)

// FailureCounter counts rejected credentials. Implemented by the metrics
// collector; nil disables counting.
type FailureCounter interface {
	RecordAuthFailure()
}

// Middleware is HTTP middleware enforcing API-key authentication against a
// KeySet. When the set is disabled, every request passes through untouched.
type Middleware struct {
	keys     *KeySet
	failures FailureCounter
	logger   *slog.Logger
}

// NewMiddleware creates the authentication middleware. The enabled/disabled
// state is logged here, once, so a missing key configuration is visible
// rather than silently open.
func NewMiddleware(keys *KeySet) *Middleware {
	logger := slog.Default().With("component", "auth")

	if keys.Enabled() {
		logger.Info("API authentication enabled", "keys", keys.Len())
	} else {
		logger.Warn("API authentication DISABLED: no API keys configured; bridged endpoints are publicly accessible")
	}

	return &Middleware{
		keys:   keys,
		logger: logger,
	}
}

// WithFailureCounter attaches a counter for rejected credentials.
func (m *Middleware) WithFailureCounter(fc FailureCounter) *Middleware {
	m.failures = fc
	return m
}

// Handle wraps an HTTP handler with the authentication gate. Rejected
// requests never reach the next handler, so no dispatch is attempted for
// unauthenticated traffic.
func (m *Middleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.keys.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		candidate := r.Header.Get(APIKeyHeader)
		if candidate == "" {
			m.logger.Warn("API key authentication failed: no X-API-Key header",
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			m.reject(w)
			return
		}

		if !m.keys.Match(candidate) {
			m.logger.Warn("API key authentication failed: key not in authorized list",
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			m.reject(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) reject(w http.ResponseWriter) {
	if m.failures != nil {
		m.failures.RecordAuthFailure()
	}
	writeUnauthorized(w)
}

// writeUnauthorized emits the standard error body for a rejected credential.
// The message is deliberately identical for missing and mismatched keys.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"kind":    "unauthorized",
			"message": "Invalid API key",
		},
	})
}
