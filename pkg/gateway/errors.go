package gateway

import (
	"encoding/json"
	"net/http"

	"evalhq/hermes/pkg/bridge"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// statusForKind maps normalized failure categories onto HTTP statuses. Engine
// failures of any shape surface as 502: from the caller's side the bridge is
// a gateway to the engine.
func statusForKind(kind bridge.Kind) int {
	switch kind {
	case bridge.KindUpstream, bridge.KindTransport, bridge.KindDecode:
		return http.StatusBadGateway
	case bridge.KindTimeout:
		return http.StatusGatewayTimeout
	case bridge.KindUnavailable, bridge.KindResolution:
		return http.StatusServiceUnavailable
	case bridge.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeBridgeError renders a normalized bridge failure. Unrecognized errors
// become a generic 500 without leaking internal detail.
func writeBridgeError(w http.ResponseWriter, err error) int {
	kind := bridge.KindOf(err)
	status := http.StatusInternalServerError
	message := "Internal server error"
	if kind != "" {
		status = statusForKind(kind)
		message = err.Error()
	}
	writeErrorJSON(w, status, string(kind), message)
	return status
}

func writeErrorJSON(w http.ResponseWriter, status int, kind, message string) {
	if kind == "" {
		kind = "internal_error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: errorDetail{Kind: kind, Message: message}})
}
