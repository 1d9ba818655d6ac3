package bridge

import (
	"encoding/json"
	"net/http"
)

// Response is the protocol-shaped outcome of a single dispatch. It is
// produced once per call and never mutated afterwards; JSON decoding is lazy
// and cached.
type Response struct {
	// StatusCode is the engine's HTTP status code.
	StatusCode int

	// Header holds the engine's response headers.
	Header http.Header

	// Body is the raw response body.
	Body []byte

	decoded     map[string]any
	decodeErr   error
	decodedOnce bool
}

// Empty reports whether the response carried no body.
func (r *Response) Empty() bool {
	return len(r.Body) == 0
}

// JSON decodes the body as a JSON object. An empty body normalizes to an
// empty map rather than an error. Decoding happens at most once.
func (r *Response) JSON() (map[string]any, error) {
	if !r.decodedOnce {
		r.decodedOnce = true
		if r.Empty() {
			r.decoded = map[string]any{}
		} else {
			var out map[string]any
			if err := json.Unmarshal(r.Body, &out); err != nil {
				r.decodeErr = NewDecodeError(err)
			} else {
				r.decoded = out
			}
		}
	}
	return r.decoded, r.decodeErr
}
