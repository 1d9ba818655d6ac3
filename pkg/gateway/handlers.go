package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"evalhq/hermes/pkg/audit"
	"evalhq/hermes/pkg/bridge"
	"evalhq/hermes/pkg/gateway/middleware"
	"evalhq/hermes/pkg/lifecycle"
)

// maxRequestBody bounds inbound evaluate payloads.
const maxRequestBody = 1 << 20

// AuditSink receives one entry per bridged call. Implemented by the audit
// recorder; a nil sink disables recording.
type AuditSink interface {
	Record(e audit.Entry)
}

// Config contains the gateway handler settings.
type Config struct {
	// Provider is the name stamped into every result envelope.
	Provider string

	// Version is reported by the /version endpoint.
	Version string

	// Audit, when non-nil, records every bridged call.
	Audit AuditSink
}

// Handler serves the bridge's outward HTTP surface.
type Handler struct {
	mgr      *lifecycle.Manager
	provider string
	version  string
	audit    AuditSink
	logger   *slog.Logger
}

// NewHandler builds the gateway over the lifecycle manager's published
// client.
func NewHandler(mgr *lifecycle.Manager, cfg Config) *Handler {
	if cfg.Provider == "" {
		cfg.Provider = "deepeval"
	}
	return &Handler{
		mgr:      mgr,
		provider: cfg.Provider,
		version:  cfg.Version,
		audit:    cfg.Audit,
		logger:   slog.Default().With("component", "gateway"),
	}
}

// Register installs all routes on mux. The gate wrapper (API key auth) is
// applied to the bridged routes only; health, discovery, and version stay
// open so probes work without credentials.
func (h *Handler) Register(mux *http.ServeMux, gate func(http.Handler) http.Handler) {
	if gate == nil {
		gate = func(next http.Handler) http.Handler { return next }
	}

	mux.Handle("POST /bridge/evaluate", gate(h.bridged(h.evaluate)))
	mux.Handle("GET /bridge/metrics", gate(h.bridged(h.availableMetrics)))
	mux.Handle("GET /bridge/metrics/categories", gate(h.bridged(h.metricCategories)))
	mux.Handle("GET /bridge/metrics/{metric}", gate(h.bridged(h.metricInfo)))

	// The engine's own surface stays reachable at /wrapper, without envelope
	// translation, so callers can use routes the bridged surface does not
	// model (bulk evaluation, async jobs).
	mux.Handle("/wrapper/", gate(http.StripPrefix("/wrapper", http.HandlerFunc(h.passthrough))))

	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("GET /version", h.versionInfo)
	mux.HandleFunc("GET /{$}", h.discovery)
}

// bridgedFunc handles one bridged route once a client is available. It
// returns the HTTP status written, for audit.
type bridgedFunc func(w http.ResponseWriter, r *http.Request, client *bridge.Client) int

// bridged checks client availability before dispatch and records the call
// outcome. A degraded bridge answers 503 without touching the engine.
func (h *Handler) bridged(fn bridgedFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var status int
		client, ok := h.mgr.Client()
		if !ok {
			status = writeBridgeError(w, bridge.NewUnavailableError())
		} else {
			status = fn(w, r, client)
		}

		if h.audit != nil {
			kind := ""
			if status >= http.StatusBadRequest {
				kind = kindForStatus(status)
			}
			h.audit.Record(audit.Entry{
				RequestID: middleware.RequestIDFromContext(r.Context()),
				Method:    r.Method,
				Path:      r.URL.Path,
				Status:    status,
				ErrorKind: kind,
				Duration:  time.Since(start),
			})
		}
	})
}

// kindForStatus recovers the failure category from the written status for
// audit rows. The inverse of statusForKind, minus distinctions the status
// code cannot carry.
func kindForStatus(status int) string {
	switch status {
	case http.StatusBadGateway:
		return string(bridge.KindUpstream)
	case http.StatusGatewayTimeout:
		return string(bridge.KindTimeout)
	case http.StatusServiceUnavailable:
		return string(bridge.KindUnavailable)
	case http.StatusUnauthorized:
		return string(bridge.KindUnauthorized)
	case http.StatusBadRequest:
		return "invalid_request"
	default:
		return "internal_error"
	}
}

func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request, client *bridge.Client) int {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "failed to read request body")
		return http.StatusBadRequest
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "request body must be a JSON object")
		return http.StatusBadRequest
	}

	// Payloads arrive either bare or wrapped in a data field; both shapes
	// address the same evaluation.
	data := payload
	if raw, ok := payload["data"]; ok {
		wrapped, ok := raw.(map[string]any)
		if !ok {
			writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "data must be a JSON object")
			return http.StatusBadRequest
		}
		data = wrapped
	}

	result, err := client.Evaluate(r.Context(), data)
	if err != nil {
		h.logger.Error("evaluation dispatch failed", "error", err,
			"request_id", middleware.RequestIDFromContext(r.Context()))
		return writeBridgeError(w, err)
	}

	writeEnvelope(w, NewEnvelope(h.provider, result))
	return http.StatusOK
}

func (h *Handler) availableMetrics(w http.ResponseWriter, r *http.Request, client *bridge.Client) int {
	result, err := client.AvailableMetrics(r.Context())
	if err != nil {
		return writeBridgeError(w, err)
	}
	writeEnvelope(w, NewEnvelope(h.provider, result))
	return http.StatusOK
}

func (h *Handler) metricCategories(w http.ResponseWriter, r *http.Request, client *bridge.Client) int {
	result, err := client.MetricCategories(r.Context())
	if err != nil {
		return writeBridgeError(w, err)
	}
	writeEnvelope(w, NewEnvelope(h.provider, result))
	return http.StatusOK
}

func (h *Handler) metricInfo(w http.ResponseWriter, r *http.Request, client *bridge.Client) int {
	result, err := client.MetricInfo(r.Context(), r.PathValue("metric"))
	if err != nil {
		return writeBridgeError(w, err)
	}
	writeEnvelope(w, NewEnvelope(h.provider, result))
	return http.StatusOK
}

// passthrough serves the resolved engine handler directly. Responses are the
// engine's own, not envelopes; a degraded bridge answers 503 like the bridged
// routes do.
func (h *Handler) passthrough(w http.ResponseWriter, r *http.Request) {
	handler, ok := h.mgr.Handler()
	if !ok {
		writeBridgeError(w, bridge.NewUnavailableError())
		return
	}
	handler.ServeHTTP(w, r)
}

// health is the bare liveness probe: the process is up.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// healthz reports process health with the engine status nested inside. The
// endpoint itself always answers 200; a degraded engine shows up in the
// payload, not the status code.
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	engine := map[string]any{"status": "uninitialised"}

	if client, ok := h.mgr.Client(); ok {
		engine["status"] = "ready"
		result, err := client.Ping(r.Context())
		if err != nil {
			engine = map[string]any{"status": "error", "detail": err.Error()}
		} else {
			engine["result"] = result
		}
	} else if err := h.mgr.LastError(); err != nil {
		engine["detail"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"engine": engine,
	})
}

func (h *Handler) versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"version":  h.version,
		"provider": h.provider,
	})
}

// discovery describes the exposed surface for callers probing the root.
func (h *Handler) discovery(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"service":  "hermes",
		"provider": h.provider,
		"bridge": map[string]any{
			"evaluate":          "POST /bridge/evaluate",
			"metrics":           "GET /bridge/metrics",
			"metric_categories": "GET /bridge/metrics/categories",
			"metric_info":       "GET /bridge/metrics/{metric}",
		},
		"wrapper": map[string]any{
			"base":        "/wrapper",
			"description": "direct access to the engine's full surface, including bulk evaluation and async jobs",
		},
		"health": map[string]any{
			"liveness": "GET /health",
			"detailed": "GET /healthz",
		},
	})
}
