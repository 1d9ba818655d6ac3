// Package enginetest provides a configurable in-memory evaluation engine for
// tests and examples. It mimics the embedded engine's route surface:
// /evaluate/, /metrics/, /metrics/categories, /metrics/{metric}, /health.
package enginetest

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Response defines a canned response for one engine route.
type Response struct {
	StatusCode int
	Body       any
	Delay      time.Duration
}

// Engine is a fake evaluation engine. The zero configuration answers every
// route with a sensible default; SetResponse overrides a route.
type Engine struct {
	mu           sync.Mutex
	responses    map[string]Response
	requestCount int
}

// New creates an engine with default responses.
func New() *Engine {
	return &Engine{
		responses: make(map[string]Response),
	}
}

// SetResponse overrides the response for a route pattern like
// "POST /evaluate/".
func (e *Engine) SetResponse(route string, resp Response) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.responses[route] = resp
}

// RequestCount returns the number of requests served.
func (e *Engine) RequestCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.requestCount
}

// Handler returns the engine as an http.Handler, suitable for exporting from
// a registry module.
func (e *Engine) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /evaluate/", e.route("POST /evaluate/", e.evaluate))
	mux.HandleFunc("GET /metrics/", e.route("GET /metrics/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"metrics": []string{"answer_relevancy", "faithfulness"}})
	}))
	mux.HandleFunc("GET /metrics/categories", e.route("GET /metrics/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"categories": []string{"rag", "safety"}})
	}))
	mux.HandleFunc("GET /metrics/{metric}", e.route("GET /metrics/{metric}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"metric": r.PathValue("metric")})
	}))
	mux.HandleFunc("GET /health", e.route("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"status": "ok"})
	}))
	return mux
}

// route wraps a default handler with request counting and the configured
// override, if any.
func (e *Engine) route(name string, fallback http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e.mu.Lock()
		e.requestCount++
		resp, ok := e.responses[name]
		e.mu.Unlock()

		if !ok {
			fallback(w, r)
			return
		}

		if resp.Delay > 0 {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(resp.Delay):
			}
		}
		if resp.StatusCode != 0 && resp.StatusCode != http.StatusOK {
			w.WriteHeader(resp.StatusCode)
		}
		if resp.Body != nil {
			writeJSON(w, resp.Body)
		}
	}
}

// evaluate scores the canonical arithmetic fixture: input "2+2" with actual
// output "4" scores 1.0, anything else 0.0.
func (e *Engine) evaluate(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]any{"error": "invalid request body"})
		return
	}

	score := 0.0
	if body["input"] == "2+2" && body["actual_output"] == "4" {
		score = 1.0
	}
	writeJSON(w, map[string]any{"score": score})
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
