package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// EnvelopeType tags every successful bridged response.
const EnvelopeType = "mcp.result"

// Envelope wraps an engine payload with routing metadata. The request id is
// minted fresh at dispatch time; retries of the same logical request get
// distinct ids.
type Envelope struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Provider  string `json:"provider"`
	RequestID string `json:"request_id"`
	Data      any    `json:"data"`
}

// NewEnvelope builds an envelope around data with a fresh id and the current
// UTC time.
func NewEnvelope(provider string, data any) Envelope {
	return Envelope{
		Type:      EnvelopeType,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Provider:  provider,
		RequestID: uuid.NewString(),
		Data:      data,
	}
}

// writeEnvelope sends a 200 envelope response. The envelope id is echoed in
// the X-Request-ID header so callers can correlate without parsing the body.
func writeEnvelope(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", env.RequestID)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(env)
}
