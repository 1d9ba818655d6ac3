package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareDisabledAdmitsEverything(t *testing.T) {
	wrapped := NewMiddleware(NewKeySet(nil)).Handle(okHandler())

	t.Run("no header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bridge/metrics", nil)
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("arbitrary header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bridge/metrics", nil)
		req.Header.Set(APIKeyHeader, "anything-at-all")
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}

type failureCount struct{ n int }

func (f *failureCount) RecordAuthFailure() { f.n++ }

func TestMiddlewareCountsFailures(t *testing.T) {
	fc := &failureCount{}
	wrapped := NewMiddleware(NewKeySet([]string{"sk-a"})).
		WithFailureCounter(fc).
		Handle(okHandler())

	for _, key := range []string{"", "sk-wrong", "sk-a"} {
		req := httptest.NewRequest(http.MethodGet, "/bridge/metrics", nil)
		if key != "" {
			req.Header.Set(APIKeyHeader, key)
		}
		wrapped.ServeHTTP(httptest.NewRecorder(), req)
	}

	if fc.n != 2 {
		t.Errorf("failure count = %d, want 2", fc.n)
	}
}

func TestMiddlewareEnabled(t *testing.T) {
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	wrapped := NewMiddleware(NewKeySet([]string{"sk-a", "sk-b", "sk-c"})).Handle(next)

	tests := []struct {
		name       string
		key        string
		setHeader  bool
		wantStatus int
	}{
		{"missing header", "", false, http.StatusUnauthorized},
		{"wrong key", "sk-wrong", true, http.StatusUnauthorized},
		{"first key", "sk-a", true, http.StatusOK},
		{"middle key", "sk-b", true, http.StatusOK},
		{"last key", "sk-c", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(http.MethodGet, "/bridge/metrics", nil)
			if tt.setHeader {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized && reached {
				t.Error("rejected request must not reach the next handler")
			}
			if tt.wantStatus == http.StatusOK && !reached {
				t.Error("admitted request should reach the next handler")
			}
		})
	}
}
